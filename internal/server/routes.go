package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tradepilot/tradepilot/internal/agent"
	"github.com/tradepilot/tradepilot/internal/handler"
	"github.com/tradepilot/tradepilot/internal/middleware"
	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/pipeline"
	"github.com/tradepilot/tradepilot/internal/schema"
	"github.com/tradepilot/tradepilot/internal/security"
	"github.com/tradepilot/tradepilot/internal/service"
)

// setupRoutes returns (router, db, error) so the database handle can be
// closed on shutdown.
func (s *Server) setupRoutes() (http.Handler, *service.TradingDB, error) {
	cfg := s.cfg

	// ─── Services ───────────────────────────────────────────────────────────────
	var db *service.TradingDB
	if cfg.DBName != "" {
		var dbErr error
		db, dbErr = service.NewTradingDB(service.DBConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
		})
		if dbErr != nil {
			log.Warn().Err(dbErr).Msg("trading database unavailable")
		}
	} else {
		log.Warn().Msg("DB_NAME not set - database disabled")
	}

	var oracle *agent.Client
	if cfg.AnthropicAPIKey != "" {
		oracle = agent.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicBaseURL)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - chat disabled")
	}

	profile := schema.ByName(cfg.SchemaProfile)
	history := service.NewHistoryStore(cfg.HistoryWindow, cfg.HistoryTTL)
	audit := security.NewAuditLogger(cfg.EnableAuditLogging)

	log.Info().
		Bool("database_enabled", db != nil).
		Bool("oracle_enabled", oracle != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Str("schema_profile", profile.Name).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("service configuration")

	if db == nil || oracle == nil {
		log.Warn().Msg("WARNING: chat pipeline not fully configured - /api/v1/chat will return 503")
	}
	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Pipeline & handlers ────────────────────────────────────────────────────
	var chatH *handler.ChatHandler
	if db != nil && oracle != nil {
		pipe := pipeline.New(oracle, db, profile, audit, pipeline.Options{
			MaxAttempts:  cfg.MaxAttempts,
			ChartMinRows: cfg.ChartMinRows,
			ChartMaxRows: cfg.ChartMaxRows,
		})
		chatH = handler.NewChatHandler(pipe, history)
	}
	healthH := handler.NewHealthHandler(db, oracle)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute, cfg.APIKeyHeader),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			if chatH != nil {
				r.Post("/chat", chatH.Chat)
			} else {
				r.Post("/chat", func(w http.ResponseWriter, _ *http.Request) {
					models.WriteError(w, http.StatusServiceUnavailable, "chat pipeline is not configured")
				})
			}
		})
	})

	return r, db, nil
}
