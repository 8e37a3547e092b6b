package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/schema"
)

// Translator turns a question plus an optional conversation window into one
// SQL statement candidate via a single oracle call.
type Translator struct {
	oracle  Oracle
	profile schema.Profile
}

func NewTranslator(oracle Oracle, profile schema.Profile) *Translator {
	return &Translator{oracle: oracle, profile: profile}
}

// Translate returns the raw statement candidate, code fences already
// stripped. Oracle failures surface to the caller uncaught; the pipeline's
// outer handler treats them as fatal for the request.
func (t *Translator) Translate(ctx context.Context, question string, history []models.ConversationEntry) (string, error) {
	raw, err := t.oracle.Complete(ctx, t.profile.SystemPrompt, renderUserPrompt(question, history), lowTemperature)
	if err != nil {
		return "", fmt.Errorf("translate question: %w", err)
	}
	return stripFences(raw), nil
}

// renderUserPrompt flattens the history into text, one entry after another in
// original order, then appends the current question. The oracle's only
// interface is text-in/text-out, so structured state has no other carrier.
func renderUserPrompt(question string, history []models.ConversationEntry) string {
	if len(history) == 0 {
		return question
	}

	var sb strings.Builder
	for _, entry := range history {
		sb.WriteString("Question: ")
		sb.WriteString(entry.Question)
		sb.WriteString("\n")
		if entry.SQLQuery != "" {
			sb.WriteString("SQL: ")
			sb.WriteString(entry.SQLQuery)
			sb.WriteString("\n")
		}
		if entry.ResultSummary != "" {
			sb.WriteString("Result: ")
			sb.WriteString(entry.ResultSummary)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nCurrent question: ")
	sb.WriteString(question)
	return sb.String()
}
