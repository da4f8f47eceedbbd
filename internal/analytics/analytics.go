// Package analytics derives performance metrics from a normalized,
// time-ordered trade list. Every statistic has a defined zero-state for an
// empty input; nothing here parses, classifies or re-sorts.
package analytics

import (
	"math"
	"sort"

	"trade-journal/internal/trade"
)

// ProfitFactorCap is reported instead of infinity when there are winning
// trades and no losing ones. A finite sentinel keeps the value
// serializable; callers should treat anything at the cap as "no losses".
const ProfitFactorCap = 9999.0

// Thresholds are the caller's risk limits, used only to express the
// computed figures as progress percentages.
type Thresholds struct {
	TargetProfit        float64
	MaxDrawdownPct      float64
	MaxDailyDrawdownPct float64
}

// EquityPoint is one step of the cumulative equity curve.
type EquityPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

// InstrumentStats aggregates per-symbol performance.
type InstrumentStats struct {
	Pair      string  `json:"pair"`
	Trades    int     `json:"trades"`
	NetProfit float64 `json:"net_profit"`
	Volume    float64 `json:"volume"`
}

// Metrics is the full analytics result.
type Metrics struct {
	TotalTrades    int     `json:"total_trades"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	TotalNetProfit float64 `json:"total_net_profit"`
	GrossProfit    float64 `json:"gross_profit"`
	GrossLoss      float64 `json:"gross_loss"`
	ProfitFactor   float64 `json:"profit_factor"`
	WinRatePct     float64 `json:"win_rate_pct"`
	AvgRR          float64 `json:"avg_rr"`

	// Streak of the most recent trades; at most one of the two is non-zero.
	WinStreak  int `json:"win_streak"`
	LossStreak int `json:"loss_streak"`

	EquityCurve         []EquityPoint `json:"equity_curve"`
	MaxDrawdownPct      float64       `json:"max_drawdown_pct"`
	MaxDailyDrawdownPct float64       `json:"max_daily_drawdown_pct"`

	// Progress against the caller's thresholds, clamped to [0, 100].
	ProfitTargetProgressPct    float64 `json:"profit_target_progress_pct"`
	DrawdownBudgetUsedPct      float64 `json:"drawdown_budget_used_pct"`
	DailyDrawdownBudgetUsedPct float64 `json:"daily_drawdown_budget_used_pct"`

	BestTrade   *trade.Trade      `json:"best_trade,omitempty"`
	WorstTrade  *trade.Trade      `json:"worst_trade,omitempty"`
	Instruments []InstrumentStats `json:"instruments"`
}

// Compute derives all metrics from trades ordered most-recent-first (the
// order trade.SortDescending produces), seeded at initialBalance. Never
// panics and never yields NaN: all divide-by-zero cases report 0.
func Compute(trades []trade.Trade, initialBalance float64, th Thresholds) Metrics {
	m := Metrics{Instruments: []InstrumentStats{}}
	n := len(trades)
	m.TotalTrades = n
	if n == 0 {
		return m
	}

	// Chronological (oldest first) view for the equity-based walks.
	asc := make([]trade.Trade, n)
	for i, t := range trades {
		asc[n-1-i] = t
	}

	for _, t := range asc {
		m.TotalNetProfit += t.ProfitLoss
		m.AvgRR += t.RRRatio
		switch {
		case t.ProfitLoss > 0:
			m.Wins++
			m.GrossProfit += t.ProfitLoss
		case t.ProfitLoss < 0:
			m.Losses++
			m.GrossLoss += -t.ProfitLoss
		}
	}
	m.TotalNetProfit = round2(m.TotalNetProfit)
	m.GrossProfit = round2(m.GrossProfit)
	m.GrossLoss = round2(m.GrossLoss)
	m.AvgRR = round2(m.AvgRR / float64(n))
	m.WinRatePct = round2(float64(m.Wins) / float64(n) * 100)

	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = round2(m.GrossProfit / m.GrossLoss)
	case m.GrossProfit > 0:
		m.ProfitFactor = ProfitFactorCap
	}

	m.EquityCurve = equityCurve(asc, initialBalance)
	m.MaxDrawdownPct = maxDrawdown(m.EquityCurve, initialBalance)
	m.MaxDailyDrawdownPct = maxDailyDrawdown(asc, initialBalance)
	m.WinStreak, m.LossStreak = currentStreak(trades)
	m.BestTrade, m.WorstTrade = bestWorst(asc)
	m.Instruments = instrumentStats(asc)

	m.ProfitTargetProgressPct = progress(m.TotalNetProfit, th.TargetProfit)
	m.DrawdownBudgetUsedPct = progress(m.MaxDrawdownPct, th.MaxDrawdownPct)
	m.DailyDrawdownBudgetUsedPct = progress(m.MaxDailyDrawdownPct, th.MaxDailyDrawdownPct)

	return m
}

// equityCurve is the cumulative net P/L in chronological order, seeded at
// the initial balance, one point per trade.
func equityCurve(asc []trade.Trade, initialBalance float64) []EquityPoint {
	curve := make([]EquityPoint, 0, len(asc))
	equity := initialBalance
	for _, t := range asc {
		equity += t.ProfitLoss
		curve = append(curve, EquityPoint{Date: t.Date, Equity: round2(equity)})
	}
	return curve
}

// maxDrawdown is the peak-to-trough walk over the equity curve, as a
// percentage of the running peak. The trough tracker resets on every new
// high. Per policy, drawdown reports 0 when the final equity sits at or
// above the initial balance — only declines below the starting reference
// count, which differs from the textbook definition on curves that dip
// between interim highs but finish positive.
func maxDrawdown(curve []EquityPoint, initialBalance float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := initialBalance
	lowest := initialBalance
	maxDD := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
			lowest = p.Equity
		}
		if p.Equity < lowest {
			lowest = p.Equity
		}
		if peak > 0 {
			if dd := (peak - lowest) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	if curve[len(curve)-1].Equity >= initialBalance {
		return 0
	}
	return round2(math.Min(maxDD, 100))
}

// maxDailyDrawdown groups trades by calendar date, seeds each day at the
// initial balance plus all earlier days' P/L, runs the peak-to-trough walk
// within the day, and reports the worst day as a percentage of its start.
func maxDailyDrawdown(asc []trade.Trade, initialBalance float64) float64 {
	if len(asc) == 0 {
		return 0
	}

	byDate := map[string][]trade.Trade{}
	var dates []string
	for _, t := range asc {
		if _, seen := byDate[t.Date]; !seen {
			dates = append(dates, t.Date)
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}
	sort.Strings(dates)

	maxDD := 0.0
	dayStart := initialBalance
	for _, date := range dates {
		equity := dayStart
		peak := dayStart
		lowest := dayStart
		for _, t := range byDate[date] {
			equity += t.ProfitLoss
			if equity > peak {
				peak = equity
				lowest = equity
			}
			if equity < lowest {
				lowest = equity
			}
		}
		if dayStart > 0 {
			if dd := (dayStart - lowest) / dayStart * 100; dd > maxDD {
				maxDD = dd
			}
		}
		dayStart = equity
	}
	return round2(math.Min(maxDD, 100))
}

// currentStreak counts consecutive same-sign trades from the most recent
// one backward, stopping at the first sign flip. A most-recent trade with
// zero P/L yields no streak at all.
func currentStreak(desc []trade.Trade) (winStreak, lossStreak int) {
	if len(desc) == 0 || desc[0].ProfitLoss == 0 {
		return 0, 0
	}
	winning := desc[0].ProfitLoss > 0
	for _, t := range desc {
		if winning && t.ProfitLoss > 0 {
			winStreak++
		} else if !winning && t.ProfitLoss < 0 {
			lossStreak++
		} else {
			break
		}
	}
	return winStreak, lossStreak
}

func bestWorst(trades []trade.Trade) (best, worst *trade.Trade) {
	for i := range trades {
		if best == nil || trades[i].ProfitLoss > best.ProfitLoss {
			best = &trades[i]
		}
		if worst == nil || trades[i].ProfitLoss < worst.ProfitLoss {
			worst = &trades[i]
		}
	}
	if best != nil {
		b := *best
		best = &b
	}
	if worst != nil {
		w := *worst
		worst = &w
	}
	return best, worst
}

func instrumentStats(trades []trade.Trade) []InstrumentStats {
	byPair := map[string]*InstrumentStats{}
	for _, t := range trades {
		s := byPair[t.Pair]
		if s == nil {
			s = &InstrumentStats{Pair: t.Pair}
			byPair[t.Pair] = s
		}
		s.Trades++
		s.NetProfit = round2(s.NetProfit + t.ProfitLoss)
		s.Volume = round2(s.Volume + t.LotSize)
	}
	out := make([]InstrumentStats, 0, len(byPair))
	for _, s := range byPair {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

// progress expresses value against a limit as a percentage clamped to
// [0, 100]; a zero or negative limit reports 0.
func progress(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return round2(math.Min(100, math.Max(0, value/limit*100)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
