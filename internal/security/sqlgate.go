package security

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotReadOnly is returned when a candidate statement does not begin with
// the read-only query keyword. Statements that fail the gate are never
// executed and the failure is not retried.
var ErrNotReadOnly = errors.New("only SELECT queries are allowed")

// dangerousPatterns catches stacked statements and classic injection shapes
// that a leading-keyword check alone would let through.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i);\s*DROP\s+`),
	regexp.MustCompile(`(?i);\s*DELETE\s+`),
	regexp.MustCompile(`(?i);\s*INSERT\s+`),
	regexp.MustCompile(`(?i);\s*UPDATE\s+`),
	regexp.MustCompile(`(?i);\s*ALTER\s+`),
	regexp.MustCompile(`(?i);\s*CREATE\s+`),
	regexp.MustCompile(`(?i);\s*TRUNCATE\s+`),
	regexp.MustCompile(`(?i)\bINTO\s+OUTFILE\b`),
	regexp.MustCompile(`(?i)\bINTO\s+DUMPFILE\b`),
	regexp.MustCompile(`(?i)\bLOAD\s+DATA\b`),
	regexp.MustCompile(`(?i)\bLOAD_FILE\s*\(`),
	regexp.MustCompile(`(?i)\bBENCHMARK\s*\(`),
	regexp.MustCompile(`(?i)\bSLEEP\s*\(`),
}

// SQLGate extracts a single read-only statement from raw model output and
// validates it before execution.
type SQLGate struct{}

func NewSQLGate() *SQLGate {
	return &SQLGate{}
}

// Extract isolates one statement from raw translator output. Models sometimes
// prepend prose or trailing commentary; this is a line-oriented best-effort
// recovery, not a SQL parser.
//
// It scans top to bottom, starts collecting at the first line that begins
// (trimmed, case-insensitive) with SELECT, and stops after a collected line
// ends with ';' or the input runs out. Collected lines are joined with single
// spaces. If no line matches, the original trimmed text is returned unchanged
// so Validate can reject it with the real content in hand.
func (g *SQLGate) Extract(raw string) string {
	var parts []string
	collecting := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if !collecting && strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
			collecting = true
		}
		if collecting {
			parts = append(parts, trimmed)
			if strings.HasSuffix(trimmed, ";") {
				break
			}
		}
	}

	if len(parts) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(parts, " ")
}

// Validate checks that the statement is read-only. The final candidate,
// trimmed and case-normalized, must start with SELECT and must not contain a
// stacked-statement pattern.
func (g *SQLGate) Validate(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return ErrNotReadOnly
	}
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return ErrNotReadOnly
	}
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(trimmed) {
			return ErrNotReadOnly
		}
	}
	return nil
}

// ExtractAndValidate combines Extract and Validate into the single contract
// the pipeline uses.
func (g *SQLGate) ExtractAndValidate(raw string) (string, error) {
	sql := g.Extract(raw)
	if err := g.Validate(sql); err != nil {
		return "", err
	}
	return sql, nil
}
