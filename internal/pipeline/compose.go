package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
)

// NoDataMessage is returned for empty result sets without an oracle call.
const NoDataMessage = "I couldn't find any data matching your query. The database might be empty or the query returned no results."

const composerSystemPrompt = `You are a helpful assistant that explains database query results in natural language.
Given a user's question, the SQL query that was run, and the results, provide a clear, concise answer.
Be friendly and conversational. Format numbers nicely (e.g., use commas for thousands, 2 decimal places for money).`

// Composer turns normalized rows into a natural-language reply.
type Composer struct {
	oracle Oracle
}

func NewComposer(oracle Oracle) *Composer {
	return &Composer{oracle: oracle}
}

// Compose makes a single oracle call with the question, the executed
// statement and the rows serialized as JSON. Empty rows short-circuit to the
// fixed no-data message.
func (c *Composer) Compose(ctx context.Context, question, sqlQuery string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return NoDataMessage, nil
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("serialize results: %w", err)
	}

	prompt := fmt.Sprintf(`Question: %s

SQL Query executed: %s

Results: %s

Please provide a natural language answer to the user's question based on these results.`, question, sqlQuery, rowsJSON)

	reply, err := c.oracle.Complete(ctx, composerSystemPrompt, prompt, 1.0)
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}
	return reply, nil
}
