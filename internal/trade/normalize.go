package trade

import (
	"math"
	"strings"
	"time"

	"trade-journal/internal/report"
	"trade-journal/internal/session"
)

// Normalize converts a raw parsed position into a canonical Trade: net P/L
// folds in commission and swap, the RR ratio is derived direction-aware
// from the stop/target levels, zero price levels become nil, and the
// trading session is always assigned.
func Normalize(p report.Position) Trade {
	t := Trade{
		Date:       tradeDate(p.OpenTime),
		Pair:       p.Symbol,
		Direction:  direction(p.Direction),
		Entry:      p.Entry,
		StopLoss:   optionalLevel(p.StopLoss),
		TakeProfit: optionalLevel(p.TakeProfit),
		LotSize:    p.Volume,
		Commission: p.Commission,
		Swap:       p.Swap,
		OpenTime:   p.OpenTime,
		CloseTime:  p.CloseTime,
		ClosePrice: p.ClosePrice,
	}

	// Net P/L = gross + commission + swap (commission and swap are already
	// signed in the report).
	t.ProfitLoss = round2(p.Profit + p.Commission + p.Swap)

	if t.ClosePrice == 0 {
		t.ClosePrice = p.Entry
	}

	t.RRRatio = rrRatio(t.Direction, p.Entry, p.StopLoss, p.TakeProfit, p.Profit)

	sessionSource := p.CloseTime
	if strings.TrimSpace(sessionSource) == "" {
		sessionSource = t.Date
	}
	t.Session = session.FromTimestamp(sessionSource)

	return t
}

// rrRatio computes reward/risk from the entry and the stop/target levels.
// When the levels are missing but the trade realized a P/L, a 1:1 ratio is
// assumed rather than reporting no ratio at all.
func rrRatio(dir Direction, entry, stopLoss, takeProfit, grossProfit float64) float64 {
	rr := 0.0
	if stopLoss > 0 && takeProfit > 0 && entry > 0 {
		var risk, reward float64
		if dir == Buy {
			risk = math.Abs(entry - stopLoss)
			reward = math.Abs(takeProfit - entry)
		} else {
			risk = math.Abs(stopLoss - entry)
			reward = math.Abs(entry - takeProfit)
		}
		if risk > 0 {
			rr = reward / risk
		}
	}
	if rr == 0 && grossProfit != 0 && entry > 0 {
		rr = 1
	}
	return rr
}

// tradeDate derives the calendar date from the open time, rewriting the
// broker's dotted dates to dashes. Falls back to today when the source
// carries no date at all.
func tradeDate(openTime string) string {
	openTime = strings.TrimSpace(openTime)
	if openTime == "" {
		return time.Now().Format("2006-01-02")
	}
	datePart := openTime
	if i := strings.IndexByte(openTime, ' '); i >= 0 {
		datePart = openTime[:i]
	}
	return strings.ReplaceAll(datePart, ".", "-")
}

func direction(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "buy") {
		return Buy
	}
	return Sell
}

func optionalLevel(v float64) *float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
