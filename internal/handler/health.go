package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tradepilot/tradepilot/internal/agent"
	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/service"
)

const version = "1.0.0"

// HealthHandler handles GET /health with dependency checks
type HealthHandler struct {
	db     *service.TradingDB
	oracle *agent.Client
}

func NewHealthHandler(db *service.TradingDB, oracle *agent.Client) *HealthHandler {
	return &HealthHandler{db: db, oracle: oracle}
}

// Health probes the database with a short timeout so the endpoint never
// blocks, and reports whether the completion client is configured. A
// degraded dependency turns the status into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.TestConnection(ctx); err != nil {
			checks["database"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
		overallStatus = "degraded"
	}

	// No completion probe: a real call costs tokens. Configuration presence
	// is the health signal here.
	if h.oracle != nil && h.oracle.Configured() {
		checks["oracle"] = "configured: " + h.oracle.Model()
	} else {
		checks["oracle"] = "disabled"
		overallStatus = "degraded"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
