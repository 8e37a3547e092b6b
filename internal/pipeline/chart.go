package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tradepilot/tradepilot/internal/models"
	"github.com/tradepilot/tradepilot/internal/schema"
)

// Classifier decides whether a result set should be visualized and how.
// Cheap lexical and shape gates run first; only the genuinely ambiguous step
// (chart family and axis choice) goes to the oracle.
type Classifier struct {
	oracle  Oracle
	profile schema.Profile
	minRows int
	maxRows int
}

func NewClassifier(oracle Oracle, profile schema.Profile, minRows, maxRows int) *Classifier {
	if minRows < 1 {
		minRows = 1
	}
	if maxRows < minRows {
		maxRows = minRows
	}
	return &Classifier{oracle: oracle, profile: profile, minRows: minRows, maxRows: maxRows}
}

// Classify returns a chart suggestion or nil. Every gate short-circuits to
// nil on failure, including oracle or parse errors: a chart is never guessed.
func (c *Classifier) Classify(ctx context.Context, question string, columns []string, rows []map[string]any) *models.ChartConfig {
	if len(rows) == 0 {
		return nil
	}

	lower := strings.ToLower(question)
	hasChart := containsAny(lower, c.profile.ChartKeywords)
	hasExport := containsAny(lower, c.profile.ExportKeywords)
	hasAuto := containsAny(lower, c.profile.AutoChartIndicators)

	if !hasChart && !hasExport && !hasAuto {
		return nil
	}

	if len(rows) < c.minRows || len(rows) > c.maxRows {
		return nil
	}
	if !hasNumericColumn(columns, rows[0]) {
		return nil
	}

	// Export without an explicit chart request: surface the export buttons
	// only, no oracle call needed.
	if hasExport && !hasChart {
		return &models.ChartConfig{Visualize: false, ShowExport: true}
	}

	cfg, err := c.pickChart(ctx, question, columns, rows)
	if err != nil {
		log.Warn().Err(err).Msg("chart type detection failed")
		return nil
	}
	cfg.Visualize = true
	cfg.ShowExport = true
	return cfg
}

// pickChart asks the oracle for the chart family and axis columns, expecting
// a single JSON object back.
func (c *Classifier) pickChart(ctx context.Context, question string, columns []string, rows []map[string]any) (*models.ChartConfig, error) {
	sample := rows
	if len(sample) > 3 {
		sample = sample[:3]
	}
	columnsJSON, _ := json.Marshal(columns)
	sampleJSON, _ := json.Marshal(sample)

	var sb strings.Builder
	sb.WriteString("The user explicitly asked for a chart. Determine the best chart type.\n\n")
	sb.WriteString("User Question: " + question + "\n")
	sb.WriteString("Columns: " + string(columnsJSON) + "\n")
	sb.WriteString("Sample Data: " + string(sampleJSON) + "\n")
	sb.WriteString("Total Rows: " + strconv.Itoa(len(rows)) + "\n\n")
	sb.WriteString(`Chart type rules:
- Time series (date/datetime column + numeric column) = "line"
- Equity curves, drawdowns, trends over time = "line"
- Comparisons (categories + numeric values) = "bar"
- Distributions (categories + values showing proportions, 3-10 rows) = "pie"
- Single metric value = "bar" (show as simple bar)
- Multiple time-based rows (>5 rows with dates) = "line"
- Default = "bar"

Respond ONLY with JSON:
{"chart_type": "line|bar|pie", "x_column": "column_name", "y_column": "column_name", "label_column": "column_name"}`)

	raw, err := c.oracle.Complete(ctx, "", sb.String(), lowTemperature)
	if err != nil {
		return nil, err
	}

	var cfg models.ChartConfig
	if err := json.Unmarshal([]byte(stripFences(raw)), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// hasNumericColumn checks the first row for at least one numeric value.
// Booleans are integer-like but excluded from the numeric test.
func hasNumericColumn(columns []string, row map[string]any) bool {
	for _, col := range columns {
		switch row[col].(type) {
		case int, int32, int64, float32, float64:
			return true
		}
	}
	return false
}
