package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tradepilot/tradepilot/internal/handler"
	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/pipeline"
	"github.com/tradepilot/tradepilot/internal/schema"
	"github.com/tradepilot/tradepilot/internal/security"
	"github.com/tradepilot/tradepilot/internal/service"
)

// scriptedOracle replays canned completions in call order.
type scriptedOracle struct {
	replies []string
	errs    []error
	calls   int
}

func (o *scriptedOracle) Complete(_ context.Context, _, _ string, _ float64) (string, error) {
	i := o.calls
	o.calls++
	if i < len(o.errs) && o.errs[i] != nil {
		return "", o.errs[i]
	}
	if i < len(o.replies) {
		return o.replies[i], nil
	}
	return "", errors.New("unscripted oracle call")
}

func newChatHandler(t *testing.T, oracle *scriptedOracle) (*handler.ChatHandler, sqlmock.Sqlmock, *service.HistoryStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pipe := pipeline.New(
		oracle,
		service.NewTradingDBFromDB(db),
		schema.Rich(),
		security.NewAuditLogger(false),
		pipeline.Options{MaxAttempts: 2, ChartMinRows: 1, ChartMaxRows: 1000},
	)
	history := service.NewHistoryStore(5, time.Minute)
	return handler.NewChatHandler(pipe, history), mock, history
}

func postChat(h *handler.ChatHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatMissingMessage(t *testing.T) {
	h, _, _ := newChatHandler(t, &scriptedOracle{})
	rec := postChat(h, `{"session_id": "s1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "message is required" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestChatInvalidBody(t *testing.T) {
	h, _, _ := newChatHandler(t, &scriptedOracle{})
	rec := postChat(h, `{"message": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatSafetyRejection(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{"DROP TABLE trading_all"}}
	h, mock, _ := newChatHandler(t, oracle)
	rec := postChat(h, `{"message": "delete everything"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Only SELECT queries are allowed for safety." {
		t.Errorf("message = %q", resp.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no statement may execute on a safety rejection: %v", err)
	}
}

func TestChatSuccess(t *testing.T) {
	query := "SELECT SUM(profit) AS total FROM trading_all"
	oracle := &scriptedOracle{replies: []string{
		query,
		"Your total profit is 1,500.50.",
	}}
	h, mock, history := newChatHandler(t, oracle)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("total").OfType("DECIMAL", nil),
		).AddRow([]byte("1500.50")))

	rec := postChat(h, `{"message": "what is my total profit?", "session_id": "s1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Your total profit is 1,500.50." {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.SQLQuery != query {
		t.Errorf("sql_query = %q", resp.SQLQuery)
	}
	if resp.SessionID != "s1" {
		t.Errorf("session_id = %q, want s1", resp.SessionID)
	}
	if len(resp.RawResults) != 1 || resp.RawResults[0]["total"] != 1500.5 {
		t.Errorf("raw_results = %v", resp.RawResults)
	}
	if resp.ChartConfig != nil {
		t.Errorf("chart_config = %+v, want null", resp.ChartConfig)
	}

	// The exchange lands in the session history for follow-ups.
	entries := history.Get("s1")
	if len(entries) != 1 || entries[0].SQLQuery != query {
		t.Errorf("history = %v", entries)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	query := "SELECT COUNT(*) AS n FROM trading_today"
	oracle := &scriptedOracle{replies: []string{query, "You made 3 trades today."}}
	h, mock, _ := newChatHandler(t, oracle)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("n").OfType("BIGINT", nil),
		).AddRow([]byte("3")))

	rec := postChat(h, `{"message": "how many trades today?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("session_id should be generated when the client omits it")
	}
}

func TestChatFallsBackOnExecutionFailure(t *testing.T) {
	query := "SELECT profit FROM trading_all"
	oracle := &scriptedOracle{
		replies: []string{
			query,
			"", // repair slot, fails via errs
			"Trading profit is the money left after closing a position.",
		},
		errs: []error{nil, errors.New("oracle busy"), nil},
	}
	h, mock, history := newChatHandler(t, oracle)
	dbErr := errors.New("Lost connection to MySQL server during query")
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(dbErr)
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(dbErr)

	rec := postChat(h, `{"message": "what is trading profit?", "session_id": "s2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp models.FallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Trading profit is the money left after closing a position." {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.Note != "Answered without database query - check server logs" {
		t.Errorf("note = %q", resp.Note)
	}
	if !strings.Contains(resp.Error, "Lost connection") {
		t.Errorf("error = %q, want the underlying failure", resp.Error)
	}

	// A fallback answer is not a database exchange; nothing lands in history.
	if entries := history.Get("s2"); entries != nil {
		t.Errorf("history = %v, want empty after fallback", entries)
	}
}

func TestChatFallbackFailureIsServerError(t *testing.T) {
	oracle := &scriptedOracle{errs: []error{errors.New("oracle down"), errors.New("oracle down")}}
	h, _, _ := newChatHandler(t, oracle)
	rec := postChat(h, `{"message": "anything"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
