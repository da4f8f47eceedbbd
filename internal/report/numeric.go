package report

import (
	"regexp"
	"strconv"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

// parseNumber coerces a broker-formatted cell ("1 234.56", "-12,30",
// "3.5 lots") to a float. Thousands separators and stray characters are
// stripped; anything that still fails becomes 0, which downstream reads as
// "absent" for optional levels.
func parseNumber(s string) float64 {
	cleaned := nonNumericRe.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
