// Package schema holds the static description of the trading database that is
// embedded into every translation prompt, plus the worked examples and SQL
// templates the model is primed with. Pure data, no behavior.
package schema

// Context describes the three tables the assistant may query.
const Context = `
=== TABLE 1: trading_all (Historical Data - All Completed Trades) ===
Purpose: Contains all historical trading data. Use this for historical analysis.
Columns:
- order_id (bigint, primary key)
- ordertime (datetime) - when the order was placed (use DATE(ordertime) for date filtering)
- strategy_name (varchar) - name of trading strategy
- broker (varchar) - broker name
- account_id (int) - account identifier
- mode (enum: 'PAPER', 'PROD') - trading mode
- equity (decimal) - equity amount
- underlying (varchar) - underlying asset (e.g., NIFTY, BANKNIFTY)
- expiration (varchar) - option expiration date
- strike (decimal) - strike price
- right (varchar) - option right (C for Call, P for Put)
- leg (decimal) - leg number in multi-leg strategy
- ticker (varchar) - ticker symbol
- side (varchar) - BUY/SELL/short
- lots (int) - number of lots
- buyprice (decimal) - buy price
- sellprice (decimal) - sell price
- buy_slippage_value (decimal) - slippage cost on buy
- sell_slippage_value (decimal) - slippage cost on sell
- mtm (decimal) - mark to market P&L
- realized (decimal) - realized profit/loss
- total_pnl (decimal) - total profit and loss (primary P&L metric)
- quantity (int) - order quantity
- quantity_filled (int) - quantity filled
- quantity_exited (int) - quantity exited
- buytime (datetime) - when position was bought
- selltime (datetime) - when position was sold
- remarks (varchar) - additional remarks
- last_updated (datetime) - last update timestamp

=== TABLE 2: trading_today (Today's Live Data - Intraday Positions) ===
Purpose: Contains only today's trading data. Emptied at end of day (data moved to trading_all).
Use this for "today", "current", "live", "intraday" questions.
Columns: Same as trading_all (identical schema)

=== TABLE 3: slip_positionlive_daily (Daily Performance Summary) ===
Purpose: Aggregated daily performance by broker, account, strategy. Use for performance analysis, win rates, strategy comparisons.
Columns:
- id (bigint, primary key)
- broker (varchar) - broker name
- account_id (int) - account identifier
- strategy_name (varchar) - name of trading strategy
- order_date (date) - trading date
- mode (enum: 'PAPER', 'PROD') - trading mode
- equity (decimal) - max equity for that day
- lots (int) - total lots traded
- buy_slippage_value (decimal) - total buy slippage
- sell_slippage_value (decimal) - total sell slippage
- mtm (decimal) - total mark to market
- realized (decimal) - total realized P&L
- total_pnl (decimal) - total profit/loss for the day
- quantity (int) - total quantity
- quantity_filled (int) - total quantity filled
- quantity_exited (int) - total quantity exited
- trade_count (int) - number of trades (short side only)
- profitable_count (int) - number of profitable trades (short side, total_pnl > 0)
- last_refreshed (datetime) - when aggregation was last run

KEY INSIGHTS:
- Win Rate = (profitable_count / trade_count) * 100
- Use slip_positionlive_daily for strategy performance, win rates, ROI
- Use trading_all for detailed trade analysis, historical trends
- Use trading_today for current day live positions

TRADING METRICS DEFINITIONS:
1. Maximum Drawdown: Largest peak-to-trough decline in equity
   - Formula: MAX(peak_equity - current_equity)
   - Use window functions: MAX() OVER (ORDER BY date)

2. Equity Curve: Running total of capital over time
   - Start with initial capital: 100000 (1 lakh for PROD mode)
   - Formula: initial_capital + SUM(daily_pnl) OVER (ORDER BY date)

3. Sharpe Ratio: Risk-adjusted return measure
   - Formula: (AVG(daily_return) / STDDEV(daily_return)) * SQRT(252)
   - Higher is better (>1 is good, >2 is excellent)

4. Win Rate: Percentage of profitable trades
   - Formula: (profitable_count / trade_count) * 100
   - Available in slip_positionlive_daily table

5. ROI (Return on Investment): Percentage return on capital
   - Formula: (total_pnl / initial_capital) * 100

6. Average Win/Loss: Average profit per winning/losing trade
   - Use CASE statements to filter profitable vs unprofitable trades

IMPORTANT: Do NOT use order_date column in trading_all. Always use DATE(ordertime) for date comparisons.
`

// TermMappings spells out trading shorthand the model should know. Rendered
// into the rich prompt profile so colloquial questions resolve to SQL-able
// definitions.
var TermMappings = map[string]string{
	"1 lac":          "100000",
	"1 lakh":         "100000",
	"1 lak":          "100000",
	"one lakh":       "100000",
	"drawdown":       "peak equity minus current equity",
	"equity curve":   "cumulative sum of PnL starting from initial capital",
	"sharpe ratio":   "(average return / standard deviation of returns) * sqrt(252)",
	"win rate":       "(profitable_count / trade_count) * 100",
	"today":          "current day trades",
	"live":           "today's intraday positions",
	"open positions": "trades where selltime IS NULL",
	"max dd":         "maximum drawdown",
	"roi":            "return on investment",
	"pnl":            "profit and loss",
}

// QueryTemplates are canned statements for the most common analytics shapes.
// Placeholders: {initial_capital}, {mode}.
var QueryTemplates = map[string]string{
	"equity_curve": `
        SELECT order_date,
               SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + {initial_capital} as equity
        FROM slip_positionlive_daily
        WHERE mode = '{mode}'
        GROUP BY order_date
        ORDER BY order_date
    `,

	"drawdown": `
        SELECT order_date,
               SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + {initial_capital} as equity,
               MAX(SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + {initial_capital})
                   OVER (ORDER BY order_date) as peak_equity,
               MAX(SUM(SUM(total_pnl)) OVER (ORDER BY order_date) + {initial_capital})
                   OVER (ORDER BY order_date) -
               SUM(SUM(total_pnl)) OVER (ORDER BY order_date) - {initial_capital} as drawdown
        FROM slip_positionlive_daily
        WHERE mode = '{mode}'
        GROUP BY order_date
        ORDER BY order_date
    `,

	"win_rate_by_strategy": `
        SELECT strategy_name,
               SUM(trade_count) as total_trades,
               SUM(profitable_count) as wins,
               (SUM(profitable_count) / SUM(trade_count) * 100) as win_rate_pct
        FROM slip_positionlive_daily
        GROUP BY strategy_name
        ORDER BY win_rate_pct DESC
    `,
}
