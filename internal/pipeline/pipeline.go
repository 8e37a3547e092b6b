package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/schema"
	"github.com/tradepilot/tradepilot/internal/security"
	"github.com/tradepilot/tradepilot/internal/service"
)

// Options parameterize the pipeline profile: retry bound and classifier
// row-count gate. Keyword lists and prompt text come with the schema profile.
type Options struct {
	MaxAttempts  int
	ChartMinRows int
	ChartMaxRows int
}

// Pipeline is the sequential chain Translate → Gate → Execute → Normalize →
// Classify → Compose. One instance serves all requests; it holds no
// per-request state.
type Pipeline struct {
	translator *Translator
	gate       *security.SQLGate
	executor   *Executor
	classifier *Classifier
	composer   *Composer
	oracle     Oracle
	db         *service.TradingDB
	audit      *security.AuditLogger
}

func New(oracle Oracle, db *service.TradingDB, profile schema.Profile, audit *security.AuditLogger, opts Options) *Pipeline {
	return &Pipeline{
		translator: NewTranslator(oracle, profile),
		gate:       security.NewSQLGate(),
		executor:   NewExecutor(oracle, opts.MaxAttempts),
		classifier: NewClassifier(oracle, profile, opts.ChartMinRows, opts.ChartMaxRows),
		composer:   NewComposer(oracle),
		oracle:     oracle,
		db:         db,
		audit:      audit,
	}
}

// Result carries everything the chat handler reports back to the client.
type Result struct {
	Response string
	SQLQuery string
	Columns  []string
	Rows     []map[string]any
	Chart    *models.ChartConfig
}

// Answer runs the full chain for one question. A security.ErrNotReadOnly
// return means the statement was rejected before any execution; the caller
// should report a client error. Any other error means the database path
// failed and Fallback should answer instead.
func (p *Pipeline) Answer(ctx context.Context, question string, history []models.ConversationEntry, apiKey string) (*Result, error) {
	start := time.Now()

	raw, err := p.translator.Translate(ctx, question, history)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("raw", raw).Msg("translator output")

	sqlQuery, err := p.gate.ExtractAndValidate(raw)
	if err != nil {
		p.audit.LogChat(question, "", apiKey, 0, 0, time.Since(start).Milliseconds(), false, err.Error())
		return nil, err
	}
	log.Info().Str("sql", sqlQuery).Msg("generated SQL")

	// One connection per invocation, reused across repair attempts, never
	// across requests.
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	exec, err := p.executor.Execute(ctx, conn, sqlQuery, question)
	if err != nil {
		p.audit.LogChat(question, sqlQuery, apiKey, 0, 0, time.Since(start).Milliseconds(), false, err.Error())
		return nil, err
	}

	rows := Normalize(exec.Columns, exec.Rows)
	names := service.ColumnNames(exec.Columns)

	var chart *models.ChartConfig
	if len(rows) > 0 {
		chart = p.classifier.Classify(ctx, question, names, rows)
	}

	reply, err := p.composer.Compose(ctx, question, exec.FinalSQL, rows)
	if err != nil {
		p.audit.LogChat(question, exec.FinalSQL, apiKey, exec.Attempts, len(rows), time.Since(start).Milliseconds(), false, err.Error())
		return nil, err
	}

	p.audit.LogChat(question, exec.FinalSQL, apiKey, exec.Attempts, len(rows), time.Since(start).Milliseconds(), true, "")

	return &Result{
		Response: reply,
		SQLQuery: exec.FinalSQL,
		Columns:  names,
		Rows:     rows,
		Chart:    chart,
	}, nil
}

// Fallback abandons the database path and answers the question with a single
// plain conversational oracle call. Used for any failure past input
// validation and the safety gate, so the user never sees a hard error.
func (p *Pipeline) Fallback(ctx context.Context, question string) (string, error) {
	reply, err := p.oracle.Complete(ctx, "You are a helpful financial trading assistant.", question, 1.0)
	if err != nil {
		return "", fmt.Errorf("fallback completion: %w", err)
	}
	return reply, nil
}

// Summarize renders rows into the one-line result summary stored in the
// conversation history.
func Summarize(rows []map[string]any) string {
	if len(rows) == 0 {
		return "no rows"
	}
	first, err := json.Marshal(rows[0])
	if err != nil {
		return fmt.Sprintf("%d rows", len(rows))
	}
	if len(rows) == 1 {
		return string(first)
	}
	return fmt.Sprintf("%s (first of %d rows)", first, len(rows))
}
