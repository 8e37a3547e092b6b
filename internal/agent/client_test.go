package agent_test

import (
	"testing"

	"github.com/tradepilot/tradepilot/internal/agent"
)

func TestNewClientDefaultsModel(t *testing.T) {
	c := agent.NewClient("sk-test", "", "")
	if c.Model() != "claude-sonnet-4-6" {
		t.Errorf("Model = %q, want the default", c.Model())
	}
}

func TestNewClientKeepsGivenModel(t *testing.T) {
	c := agent.NewClient("sk-test", "claude-haiku-4", "")
	if c.Model() != "claude-haiku-4" {
		t.Errorf("Model = %q", c.Model())
	}
}

func TestConfigured(t *testing.T) {
	if agent.NewClient("", "", "").Configured() {
		t.Error("Configured should be false without an API key")
	}
	if !agent.NewClient("sk-test", "", "").Configured() {
		t.Error("Configured should be true with an API key")
	}
}
