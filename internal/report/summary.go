package report

import (
	"regexp"
	"strings"
)

var (
	decimalRe = regexp.MustCompile(`[\d\s,]+\.\d+`)
	winRateRe = regexp.MustCompile(`\((\d+(?:\.\d+)?)%\)`)
)

// extractSummary pulls the Results-section figures. Each label is looked up
// independently so one missing figure never affects the others.
func extractSummary(rows []row) Summary {
	return Summary{
		TotalNetProfit: labeledNumber(rows, "Total Net Profit:"),
		GrossProfit:    labeledNumber(rows, "Gross Profit:"),
		GrossLoss:      labeledNumber(rows, "Gross Loss:"),
		ProfitFactor:   labeledNumber(rows, "Profit Factor:"),
		ExpectedPayoff: labeledNumber(rows, "Expected Payoff:"),
		RecoveryFactor: labeledNumber(rows, "Recovery Factor:"),
		SharpeRatio:    labeledNumber(rows, "Sharpe Ratio:"),
		TotalTrades:    int(labeledNumber(rows, "Total Trades:")),
		WinRatePct:     extractWinRate(rows),
	}
}

// labeledNumber finds the row carrying the given label and reads its bolded
// value, falling back to the first decimal-looking run in the row text.
// Missing labels yield 0.
func labeledNumber(rows []row, label string) float64 {
	needle := strings.ToLower(label)
	for _, r := range rows {
		if !strings.Contains(r.text, needle) {
			continue
		}
		if r.bold != "" {
			return parseNumber(r.bold)
		}
		if m := decimalRe.FindString(r.text); m != "" {
			return parseNumber(m)
		}
		return 0
	}
	return 0
}

// extractWinRate reads the "Profit Trades (% of total)" row, which embeds
// the rate as a parenthesized percentage next to the count.
func extractWinRate(rows []row) float64 {
	for _, r := range rows {
		if !strings.Contains(r.text, "profit trades") || !strings.Contains(r.text, "%") {
			continue
		}
		if m := winRateRe.FindStringSubmatch(r.text); m != nil {
			return parseNumber(m[1])
		}
	}
	return 0
}

// extractBalance reads the account balance row, skipping the Credit
// Facility line that shares the "Balance:" label.
func extractBalance(rows []row) float64 {
	for _, r := range rows {
		if !strings.Contains(r.text, "balance:") || strings.Contains(r.text, "credit facility") {
			continue
		}
		if r.bold != "" {
			if v := parseNumber(r.bold); v != 0 {
				return v
			}
		}
		if m := decimalRe.FindString(r.text); m != "" {
			if v := parseNumber(m); v != 0 {
				return v
			}
		}
	}
	return 0
}
