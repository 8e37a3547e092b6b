package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tradepilot/tradepilot/internal/pipeline"
)

func TestComposeEmptyRowsSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{}
	c := pipeline.NewComposer(oracle)
	got, err := c.Compose(context.Background(), "profit today?", "SELECT profit FROM trading_today", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got != pipeline.NoDataMessage {
		t.Errorf("Compose = %q, want the fixed no-data message", got)
	}
	if len(oracle.calls) != 0 {
		t.Errorf("oracle called %d times for empty rows, want 0", len(oracle.calls))
	}
}

func TestComposeCarriesQuestionSQLAndRows(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"Your total profit last week was 1,500.50."}}
	c := pipeline.NewComposer(oracle)
	rows := []map[string]any{{"total": 1500.5}}
	got, err := c.Compose(context.Background(), "total profit last week?", "SELECT SUM(profit) AS total FROM trading_all", rows)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got != "Your total profit last week was 1,500.50." {
		t.Errorf("Compose = %q", got)
	}

	call := oracle.calls[0]
	for _, want := range []string{
		"total profit last week?",
		"SELECT SUM(profit) AS total FROM trading_all",
		`{"total":1500.5}`,
	} {
		if !strings.Contains(call.user, want) {
			t.Errorf("composer prompt missing %q", want)
		}
	}
	if call.temperature != 1.0 {
		t.Errorf("temperature = %v, want 1.0", call.temperature)
	}
}

func TestComposeOracleFailure(t *testing.T) {
	oracle := &fakeOracle{errs: []error{errors.New("overloaded")}}
	c := pipeline.NewComposer(oracle)
	rows := []map[string]any{{"total": int64(3)}}
	if _, err := c.Compose(context.Background(), "q", "SELECT 1", rows); err == nil {
		t.Fatal("expected error when the oracle fails")
	}
}
