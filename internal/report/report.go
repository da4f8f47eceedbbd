// Package report extracts trade positions and account figures from
// broker-exported trade-history HTML. The export layout is not versioned:
// section headers, column order and column count differ between broker
// builds, so extraction is heuristic and tolerant. A row that cannot be
// resolved is skipped and counted, never fatal; only a document without a
// recognizable Positions table aborts the parse.
package report

import "errors"

var (
	// ErrMalformedDocument is returned when the input is empty or cannot be
	// parsed as HTML at all.
	ErrMalformedDocument = errors.New("report: input is not a parseable HTML document")

	// ErrPositionsTableNotFound is returned when no Positions section could
	// be located after exhausting every header heuristic.
	ErrPositionsTableNotFound = errors.New("report: no trade history found in this document")
)

// Position is one raw trade row as it appears in the Positions table.
// Numeric fields are best-effort: 0 means the cell was absent or
// unparseable, which for StopLoss/TakeProfit reads as "not set".
type Position struct {
	OpenTime   string
	Symbol     string
	Direction  string // "buy" or "sell"
	Volume     float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	CloseTime  string
	ClosePrice float64
	Commission float64
	Swap       float64
	Profit     float64
}

// Summary holds the report-level figures from the Results section.
// Every field is independently optional; absent figures stay 0.
type Summary struct {
	TotalNetProfit float64 `json:"total_net_profit"`
	GrossProfit    float64 `json:"gross_profit"`
	GrossLoss      float64 `json:"gross_loss"`
	ProfitFactor   float64 `json:"profit_factor"`
	ExpectedPayoff float64 `json:"expected_payoff"`
	RecoveryFactor float64 `json:"recovery_factor"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	TotalTrades    int     `json:"total_trades"`
	WinRatePct     float64 `json:"win_rate_pct"`
}

// Report is the result of one parse: however many positions resolved,
// plus the account balance and summary figures. SkippedRows counts rows
// that looked like trades but failed resolution (non-fatal).
type Report struct {
	Positions   []Position
	Balance     float64
	Summary     Summary
	SkippedRows int
}
