package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/pipeline"
	"github.com/tradepilot/tradepilot/internal/schema"
)

func TestTranslateStripsFences(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"```sql\nSELECT SUM(profit) FROM trading_all\n```"}}
	tr := pipeline.NewTranslator(oracle, schema.Rich())
	got, err := tr.Translate(context.Background(), "total profit?", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "SELECT SUM(profit) FROM trading_all" {
		t.Errorf("Translate = %q, want bare statement", got)
	}
	if oracle.calls[0].temperature != 0.1 {
		t.Errorf("temperature = %v, want 0.1", oracle.calls[0].temperature)
	}
	if oracle.calls[0].system != schema.Rich().SystemPrompt {
		t.Error("translator should use the profile system prompt")
	}
}

func TestTranslateWithoutHistorySendsBareQuestion(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"SELECT 1"}}
	tr := pipeline.NewTranslator(oracle, schema.Rich())
	if _, err := tr.Translate(context.Background(), "how many trades today?", nil); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if oracle.calls[0].user != "how many trades today?" {
		t.Errorf("user prompt = %q, want the question alone", oracle.calls[0].user)
	}
}

func TestTranslateRendersHistoryInOrder(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"SELECT 1"}}
	tr := pipeline.NewTranslator(oracle, schema.Rich())
	history := []models.ConversationEntry{
		{Question: "total profit?", SQLQuery: "SELECT SUM(profit) FROM trading_all", ResultSummary: `{"total": 1500.5}`},
		{Question: "and for NIFTY only?", SQLQuery: "SELECT SUM(profit) FROM trading_all WHERE ticker LIKE '%NIFTY%'", ResultSummary: `{"total": 900}`},
	}
	if _, err := tr.Translate(context.Background(), "what about last month?", history); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	prompt := oracle.calls[0].user
	first := strings.Index(prompt, "total profit?")
	second := strings.Index(prompt, "and for NIFTY only?")
	current := strings.Index(prompt, "Current question: what about last month?")
	if first == -1 || second == -1 || current == -1 {
		t.Fatalf("prompt missing pieces:\n%s", prompt)
	}
	if !(first < second && second < current) {
		t.Error("history must appear in chronological order before the current question")
	}
	if !strings.Contains(prompt, `Result: {"total": 1500.5}`) {
		t.Error("prompt should carry result summaries")
	}
}

func TestTranslateOracleFailure(t *testing.T) {
	oracle := &fakeOracle{errs: []error{errors.New("rate limited")}}
	tr := pipeline.NewTranslator(oracle, schema.Rich())
	if _, err := tr.Translate(context.Background(), "anything", nil); err == nil {
		t.Fatal("expected error when the oracle fails")
	}
}
