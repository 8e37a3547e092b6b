package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Database (MariaDB/MySQL)
	DBHost     string `json:"db_host"`
	DBPort     int    `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for custom proxy
	Model            string `json:"model"`

	// Pipeline profile (see schema package for the prompt profiles)
	SchemaProfile string `json:"schema_profile"` // "rich" | "simple"
	MaxAttempts   int    `json:"max_attempts"`
	ChartMinRows  int    `json:"chart_min_rows"`
	ChartMaxRows  int    `json:"chart_max_rows"`

	// Conversation history
	HistoryWindow int           `json:"history_window"`
	HistoryTTL    time.Duration `json:"-"`

	// Audit
	EnableAuditLogging bool `json:"enable_audit_logging"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		APIPrefix:          DefaultAPIPrefix,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		APIKeyHeader:       "X-API-Key",
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		DBHost:             DefaultDBHost,
		DBPort:             DefaultDBPort,
		DBUser:             DefaultDBUser,
		Model:              DefaultModel,
		SchemaProfile:      "rich",
		MaxAttempts:        DefaultMaxAttempts,
		ChartMinRows:       DefaultChartMinRows,
		ChartMaxRows:       DefaultChartMaxRows,
		HistoryWindow:      DefaultHistoryWindow,
		HistoryTTL:         DefaultHistoryTTL,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("TRADEPILOT_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("TRADEPILOT_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("TRADEPILOT_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("TRADEPILOT_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("TRADEPILOT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("TRADEPILOT_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
		cfg.EnableAuth = true
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		cfg.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.DBPort = p
		}
	}
	if v := getEnv("DB_USER", ""); v != "" {
		cfg.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		cfg.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		cfg.DBName = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("TRADEPILOT_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("TRADEPILOT_SCHEMA_PROFILE", ""); v != "" {
		cfg.SchemaProfile = v
	}
	if v := getEnv("TRADEPILOT_MAX_ATTEMPTS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.MaxAttempts = n
		}
	}
	if v := getEnv("TRADEPILOT_CHART_MIN_ROWS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.ChartMinRows = n
		}
	}
	if v := getEnv("TRADEPILOT_CHART_MAX_ROWS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.ChartMaxRows = n
		}
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
