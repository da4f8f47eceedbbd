package trade

import (
	"regexp"
	"strings"
	"time"
)

var dottedDateRe = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)

// Timestamp layouts brokers are known to emit, tried in order after
// normalization.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ResolveTimestamp picks the most authoritative time field of a trade and
// parses it as a wall-clock instant in loc. Priority: openTime (preserves
// the report's own ordering), then closeTime combined with the date when it
// holds only a time-of-day, then the date alone at midnight. A string that
// still fails to parse resolves to the epoch, which sorts the trade to the
// bottom instead of failing.
func ResolveTimestamp(t Trade, loc *time.Location) time.Time {
	var raw string
	switch {
	case strings.TrimSpace(t.OpenTime) != "":
		raw = strings.TrimSpace(t.OpenTime)
	case strings.TrimSpace(t.CloseTime) != "":
		ct := strings.TrimSpace(t.CloseTime)
		if strings.Contains(ct, " ") || dottedDateRe.MatchString(ct) ||
			strings.Contains(ct, "T") {
			raw = ct
		} else {
			// Time-of-day only; anchor it to the trade date.
			raw = t.Date + " " + ct
		}
	default:
		raw = strings.TrimSpace(t.Date)
		if raw != "" && !strings.ContainsAny(raw, ":T") {
			raw += " 00:00:00"
		}
	}

	return parseInstant(raw, loc)
}

func parseInstant(raw string, loc *time.Location) time.Time {
	raw = dottedDateRe.ReplaceAllString(raw, "$1-$2-$3")
	if strings.Contains(raw, " ") && !strings.Contains(raw, "T") {
		raw = strings.Replace(raw, " ", "T", 1)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts
		}
	}
	return time.Unix(0, 0)
}
