package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultDBHost    = "127.0.0.1"
	DefaultDBPort    = 3306
	DefaultDBUser    = "root"
	DefaultDBCharset = "utf8mb4"

	// Bounded self-healing retry: total execution attempts per question.
	DefaultMaxAttempts = 2

	// Classifier shape gate. The looser profile allows single-row results
	// so point metrics like a Sharpe ratio stay chart-eligible.
	DefaultChartMinRows = 1
	DefaultChartMaxRows = 1000

	// Conversation history window passed to the translator.
	DefaultHistoryWindow = 5
	DefaultHistoryTTL    = 30 * time.Minute

	DefaultModel     = "claude-sonnet-4-6"
	DefaultMaxTokens = 2048

	DefaultCORSMaxAge = 300
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}
