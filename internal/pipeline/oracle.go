// Package pipeline implements the conversational query chain: translate a
// question to SQL, gate it, execute it with bounded self-healing retries,
// normalize the rows, classify them for visualization and compose the reply.
package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Oracle is the narrow completion contract the pipeline depends on. The
// production implementation is agent.Client; tests substitute a rule-based
// fake.
type Oracle interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// lowTemperature favors syntactic reproducibility for SQL generation and
// repair. Determinism is only probabilistic, which is why the safety gate and
// the repair loop exist at all.
const lowTemperature = 0.1

var (
	fenceTagged = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*|\\s*```$")
)

// stripFences removes leading/trailing fenced-code markers, language-tagged
// or bare, plus surrounding whitespace.
func stripFences(s string) string {
	return strings.TrimSpace(fenceTagged.ReplaceAllString(strings.TrimSpace(s), ""))
}
