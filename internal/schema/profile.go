package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Profile bundles the translation prompt text with the classifier keyword
// lists. Two profiles are shipped: the rich profile carries the full worked
// example set and term glossary, the simple profile only the schema and rules.
// Deployments select one via config rather than forking the pipeline.
type Profile struct {
	Name string

	// SystemPrompt is the full NL→SQL system prompt including schema
	// context, rules and worked examples.
	SystemPrompt string

	// ChartKeywords trigger the chart path of the visualization classifier.
	ChartKeywords []string
	// ExportKeywords trigger the export path.
	ExportKeywords []string
	// AutoChartIndicators make chart-worthy questions eligible even without
	// an explicit chart keyword.
	AutoChartIndicators []string
}

const promptRules = `Rules:
1. Only generate SELECT queries (no INSERT, UPDATE, DELETE)
2. Use proper MySQL syntax
3. Return ONLY the SQL query, nothing else
4. Use backticks for column names with special characters
5. For profit questions, use 'total_pnl' or 'realized' columns
6. CRITICAL: For date filtering, ALWAYS use DATE(ordertime) - NEVER use order_date column
7. Always limit results to reasonable amounts (e.g., LIMIT 100)
8. Format dates properly for MySQL
9. IMPORTANT: If the user asks a follow-up question (like "what was the ticker" or "show me more details"),
   use the context from previous questions and queries to understand what they're referring to.
10. For EQUITY CURVE queries: Use SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000 (starting capital 1 lakh)
11. For DRAWDOWN queries: Calculate as peak_equity - current_equity using window functions
12. Initial capital is always 100000 (1 lakh) for PROD mode
13. Use slip_positionlive_daily table for equity curves and drawdown (faster than trading_all)`

const workedExamples = `Examples:

=== Historical Data Queries (trading_all) ===
Q: "What was my total profit yesterday?"
A: SELECT SUM(total_pnl) as profit FROM trading_all WHERE DATE(ordertime) = CURDATE() - INTERVAL 1 DAY;

Q: "Show me my top 5 profitable trades"
A: SELECT order_id, ticker, total_pnl, ordertime FROM trading_all ORDER BY total_pnl DESC LIMIT 5;

Q: "When was the first day I started trading and what was the profit?"
A: SELECT DATE(MIN(ordertime)) as first_day, SUM(total_pnl) as profit FROM trading_all WHERE DATE(ordertime) = (SELECT DATE(MIN(ordertime)) FROM trading_all);

Q: "Show me all trades from March 2025"
A: SELECT * FROM trading_all WHERE DATE(ordertime) BETWEEN '2025-03-01' AND '2025-03-31' LIMIT 100;

=== Today's Live Data (trading_today) ===
Q: "What's my profit today?"
A: SELECT SUM(total_pnl) as profit FROM trading_today;

Q: "Show me my current open positions"
A: SELECT order_id, ticker, strategy_name, buyprice, mtm, total_pnl FROM trading_today WHERE selltime IS NULL;

Q: "How many trades have I done today?"
A: SELECT COUNT(*) as trade_count FROM trading_today;

=== Performance Summary (slip_positionlive_daily) ===
Q: "What's the win rate for each strategy?"
A: SELECT strategy_name, SUM(trade_count) as total_trades, SUM(profitable_count) as wins, (SUM(profitable_count) / SUM(trade_count) * 100) as win_rate_pct FROM slip_positionlive_daily GROUP BY strategy_name;

Q: "Which strategy performed best last week?"
A: SELECT strategy_name, SUM(total_pnl) as total_profit, SUM(trade_count) as trades FROM slip_positionlive_daily WHERE order_date >= CURDATE() - INTERVAL 7 DAY GROUP BY strategy_name ORDER BY total_profit DESC LIMIT 1;

Q: "Show me daily performance for the last 30 days"
A: SELECT order_date, SUM(total_pnl) as daily_pnl, SUM(trade_count) as trades, (SUM(profitable_count) / SUM(trade_count) * 100) as win_rate FROM slip_positionlive_daily WHERE order_date >= CURDATE() - INTERVAL 30 DAY GROUP BY order_date ORDER BY order_date;

Q: "Compare broker performance this month"
A: SELECT broker, SUM(total_pnl) as profit, SUM(trade_count) as trades FROM slip_positionlive_daily WHERE order_date >= DATE_FORMAT(CURDATE(), '%Y-%m-01') GROUP BY broker ORDER BY profit DESC;

=== Equity Curve & Drawdown Queries (Advanced) ===
Q: "Show me equity curve starting with 1 lakh" OR "Chart my equity over time"
A: SELECT order_date, SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000 as equity FROM slip_positionlive_daily WHERE mode = 'PROD' GROUP BY order_date ORDER BY order_date;

Q: "Show drawdown chart" OR "Chart maximum drawdown" OR "Show me a chart of maximum drawdown"
A: SELECT order_date,
       SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000 as equity,
       MAX(SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000) OVER (ORDER BY order_date) as peak_equity,
       (MAX(SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000) OVER (ORDER BY order_date)) - (SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000) as drawdown
FROM slip_positionlive_daily
WHERE mode = 'PROD'
GROUP BY order_date
ORDER BY order_date;

Q: "What is my maximum drawdown percentage?"
A: WITH equity_curve AS (
    SELECT order_date,
           SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000 as equity,
           MAX(SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + 100000) OVER (ORDER BY order_date) as peak_equity
    FROM slip_positionlive_daily
    WHERE mode = 'PROD'
    GROUP BY order_date
)
SELECT MAX((peak_equity - equity) / peak_equity * 100) as max_drawdown_pct FROM equity_curve;

=== Risk Metrics & Advanced Analytics ===
Q: "Calculate my Sharpe ratio" OR "What is my Sharpe ratio?"
A: WITH daily_returns AS (
    SELECT order_date, SUM(total_pnl) as daily_pnl
    FROM slip_positionlive_daily
    WHERE mode = 'PROD'
    GROUP BY order_date
)
SELECT (AVG(daily_pnl) / STDDEV(daily_pnl)) * SQRT(252) as sharpe_ratio FROM daily_returns;

Q: "What is my ROI?" OR "Calculate return on investment"
A: SELECT (SUM(total_pnl) / 100000 * 100) as roi_percentage FROM slip_positionlive_daily WHERE mode = 'PROD';

Q: "Show me average win and average loss"
A: SELECT
    AVG(CASE WHEN total_pnl > 0 THEN total_pnl END) as avg_win,
    AVG(CASE WHEN total_pnl < 0 THEN total_pnl END) as avg_loss,
    AVG(CASE WHEN total_pnl > 0 THEN total_pnl END) / ABS(AVG(CASE WHEN total_pnl < 0 THEN total_pnl END)) as win_loss_ratio
FROM trading_all;

Q: "Chart my rolling 7-day profit average"
A: SELECT order_date,
       SUM(total_pnl) as daily_pnl,
       AVG(SUM(total_pnl)) OVER (ORDER BY order_date ROWS BETWEEN 6 PRECEDING AND CURRENT ROW) as rolling_7day_avg
FROM slip_positionlive_daily
WHERE mode = 'PROD'
GROUP BY order_date
ORDER BY order_date;

Q: "What are my best and worst trading days?"
A: (SELECT order_date, SUM(total_pnl) as pnl, 'Best' as type FROM slip_positionlive_daily WHERE mode = 'PROD' GROUP BY order_date ORDER BY pnl DESC LIMIT 5)
UNION ALL
(SELECT order_date, SUM(total_pnl) as pnl, 'Worst' as type FROM slip_positionlive_daily WHERE mode = 'PROD' GROUP BY order_date ORDER BY pnl ASC LIMIT 5)
ORDER BY pnl DESC;

Q: "Compare strategy risk-adjusted returns"
A: SELECT strategy_name,
       SUM(total_pnl) as total_profit,
       (SUM(profitable_count) / SUM(trade_count) * 100) as win_rate,
       SUM(total_pnl) / STDDEV(total_pnl) as risk_adjusted_return
FROM slip_positionlive_daily
WHERE mode = 'PROD'
GROUP BY strategy_name
ORDER BY risk_adjusted_return DESC;

Follow-up Example:
Previous Q: "What was my biggest loss?"
Previous SQL: SELECT * FROM trading_all ORDER BY total_pnl ASC LIMIT 1;
Previous Result: Shows trade with ticker='NIFTY', total_pnl=-5000, ordertime='2024-01-15 10:30:00'

Current Q: "what was the ticker"
A: SELECT ticker FROM trading_all ORDER BY total_pnl ASC LIMIT 1;`

var richChartKeywords = []string{
	"chart", "plot", "graph", "visualize", "show me a",
	"trend", "over time", "curve", "drawdown",
}

var richExportKeywords = []string{"excel", "csv", "export", "download"}

var richAutoChartIndicators = []string{
	"equity", "profit trend", "performance", "comparison",
	"daily", "monthly", "rolling",
}

var simpleChartKeywords = []string{"chart", "plot", "graph", "visualize"}

var simpleExportKeywords = []string{"export", "csv"}

// ByName returns the named profile, falling back to the rich one.
func ByName(name string) Profile {
	if strings.EqualFold(name, "simple") {
		return Simple()
	}
	return Rich()
}

// Rich is the full profile: schema + glossary + every worked example.
func Rich() Profile {
	var sb strings.Builder
	sb.WriteString("You are a SQL expert. Convert natural language questions to MySQL queries.\n\n")
	sb.WriteString("Database Schema:\n")
	sb.WriteString(Context)
	sb.WriteString("\nTrading term glossary:\n")
	sb.WriteString(renderTermMappings())
	sb.WriteString("\n")
	sb.WriteString(promptRules)
	sb.WriteString("\n\n")
	sb.WriteString(workedExamples)
	sb.WriteString("\n\nReference query templates (PROD mode, starting capital 100000):\n")
	sb.WriteString(renderQueryTemplates())

	return Profile{
		Name:                "rich",
		SystemPrompt:        sb.String(),
		ChartKeywords:       richChartKeywords,
		ExportKeywords:      richExportKeywords,
		AutoChartIndicators: richAutoChartIndicators,
	}
}

// Simple is the trimmed profile: schema and rules only, stricter classifier
// keyword set, no auto-chart indicators.
func Simple() Profile {
	var sb strings.Builder
	sb.WriteString("You are a SQL expert. Convert natural language questions to MySQL queries.\n\n")
	sb.WriteString("Database Schema:\n")
	sb.WriteString(Context)
	sb.WriteString("\n")
	sb.WriteString(promptRules)

	return Profile{
		Name:           "simple",
		SystemPrompt:   sb.String(),
		ChartKeywords:  simpleChartKeywords,
		ExportKeywords: simpleExportKeywords,
	}
}

// renderQueryTemplates inlines the named templates with production values so
// the model sees runnable statements.
func renderQueryTemplates() string {
	names := make([]string, 0, len(QueryTemplates))
	for n := range QueryTemplates {
		names = append(names, n)
	}
	sort.Strings(names)

	r := strings.NewReplacer("{initial_capital}", "100000", "{mode}", "PROD")
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteString(":\n")
		sb.WriteString(r.Replace(QueryTemplates[n]))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderTermMappings() string {
	terms := make([]string, 0, len(TermMappings))
	for t := range TermMappings {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	var sb strings.Builder
	for _, t := range terms {
		sb.WriteString(fmt.Sprintf("- %q means: %s\n", t, TermMappings[t]))
	}
	return sb.String()
}
