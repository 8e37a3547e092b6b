package pipeline

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tradepilot/tradepilot/internal/service"
)

// Executor runs a gated statement against the database with a bounded
// self-healing retry loop: on failure it asks the oracle to repair the
// statement using the error text before trying again.
type Executor struct {
	oracle      Oracle
	maxAttempts int
}

func NewExecutor(oracle Oracle, maxAttempts int) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{oracle: oracle, maxAttempts: maxAttempts}
}

// ExecResult is the outcome of a successful attempt. FinalSQL is the
// statement that actually ran, which differs from the input when a repair
// succeeded. Attempts counts executions, not repairs.
type ExecResult struct {
	Columns  []service.Column
	Rows     []map[string]any
	FinalSQL string
	Attempts int
}

// Execute runs the statement on the provided connection. The connection is
// reused across repair attempts within this invocation but never across
// invocations. No partial results are ever merged: the rows of exactly one
// successful attempt are returned.
func (e *Executor) Execute(ctx context.Context, conn *sql.Conn, sqlQuery, question string) (*ExecResult, error) {
	current := sqlQuery
	var lastErr error
	executed := 0

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		executed = attempt
		columns, rows, err := service.Query(ctx, conn, current)
		if err == nil {
			return &ExecResult{
				Columns:  columns,
				Rows:     rows,
				FinalSQL: current,
				Attempts: attempt,
			}, nil
		}
		lastErr = err
		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", e.maxAttempts).
			Err(err).
			Msg("query execution failed")

		if attempt >= e.maxAttempts {
			break
		}

		fixed, repairErr := e.repair(ctx, current, err.Error(), question)
		if repairErr != nil {
			// Repair is best-effort: an unavailable oracle just means no
			// fix, the original statement gets the remaining attempt.
			log.Warn().Err(repairErr).Msg("repair call failed, retrying original statement")
			continue
		}
		if fixed == "" || fixed == current {
			log.Debug().Msg("oracle declined to repair statement")
			break
		}
		log.Info().Str("sql", fixed).Msg("retrying with repaired statement")
		current = fixed
	}

	// A declined repair can end the loop before the attempt budget is spent,
	// so report the executions that actually happened.
	return nil, fmt.Errorf("query failed after %d attempt(s): %w", executed, lastErr)
}

// repair asks the oracle for a corrected statement given the failure.
func (e *Executor) repair(ctx context.Context, sqlQuery, errorMessage, question string) (string, error) {
	prompt := fmt.Sprintf(`The following SQL query failed with an error. Please fix it and return ONLY the corrected SQL query.

Original User Question: %s

Failed SQL Query:
%s

Error Message:
%s

Common issues to check:
- Invalid column names
- Incorrect table names
- Syntax errors
- Missing GROUP BY clauses for aggregated columns
- Division by zero
- Incorrect date functions

Return ONLY the fixed SQL query, nothing else.`, question, sqlQuery, errorMessage)

	raw, err := e.oracle.Complete(ctx, "", prompt, lowTemperature)
	if err != nil {
		return "", err
	}
	return stripFences(raw), nil
}
