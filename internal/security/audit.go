package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs chat pipeline events with hashed identifiers so raw SQL
// and API keys never land in the log stream.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogChat records one chat request: the hashed question and executed SQL,
// attempt count, row count, duration and outcome.
func (a *AuditLogger) LogChat(
	question, sql, apiKey string,
	attempts, rowCount int,
	executionTimeMs int64,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}
	questionHash := hashStr(question)[:16]
	keyHash := hashStr(apiKey)[:16]
	sqlHash := ""
	if sql != "" {
		sqlHash = hashStr(sql)[:16]
	}

	evt := log.Info().
		Str("event", "chat_audit").
		Str("question_hash", questionHash).
		Str("api_key_hash", keyHash).
		Str("sql_hash", sqlHash).
		Int("attempts", attempts).
		Int("row_count", rowCount).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(s)))
}
