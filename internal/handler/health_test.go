package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tradepilot/tradepilot/internal/agent"
	"github.com/tradepilot/tradepilot/internal/handler"
	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/service"
)

func TestHealthHealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	h := handler.NewHealthHandler(service.NewTradingDBFromDB(db), agent.NewClient("sk-test", "", ""))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database check = %q", resp.Checks["database"])
	}
	if resp.Checks["oracle"] != "configured: claude-sonnet-4-6" {
		t.Errorf("oracle check = %q", resp.Checks["oracle"])
	}
}

func TestHealthDegradedWithoutDatabase(t *testing.T) {
	h := handler.NewHealthHandler(nil, agent.NewClient("sk-test", "", ""))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Checks["database"] != "disabled" {
		t.Errorf("database check = %q", resp.Checks["database"])
	}
}

func TestHealthDegradedWithoutOracle(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	h := handler.NewHealthHandler(service.NewTradingDBFromDB(db), agent.NewClient("", "", ""))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
