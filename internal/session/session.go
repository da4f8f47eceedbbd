// Package session buckets trades into named trading-session windows.
//
// Boundaries are wall-clock minutes in the report's reference timezone;
// the classifier never converts between zones. It is total: every minute
// of the day maps to exactly one label, and the NewYork window wraps
// across midnight.
package session

import (
	"regexp"
	"strconv"
	"time"
)

// Label names a trading-session window.
type Label string

const (
	Sydney        Label = "Sydney Session"
	SydneyTokyo   Label = "Sydney + Tokyo"
	Tokyo         Label = "Tokyo Session"
	TokyoLondon   Label = "Tokyo + London"
	London        Label = "London Session"
	LondonNewYork Label = "London + NewYork"
	NewYork       Label = "NewYork Session"
)

// Labels lists the seven session windows in daily order.
var Labels = []Label{Sydney, SydneyTokyo, Tokyo, TokyoLondon, London, LondonNewYork, NewYork}

// Session window boundaries in minutes since midnight.
const (
	sydneyStart      = 210  // 3:30 AM
	sydneyTokyoStart = 330  // 5:30 AM
	tokyoStart       = 750  // 12:30 PM
	tokyoLondonStart = 810  // 1:30 PM
	londonStart      = 870  // 2:30 PM
	londonNYStart    = 1170 // 6:30 PM
	newYorkStart     = 1410 // 10:30 PM, runs past midnight to 3:30 AM
)

// noonMinute is the sentinel applied when a timestamp carries no time component.
const noonMinute = 12 * 60

var timeOfDayRe = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::\d{2})?`)

// ClassifyMinute maps a minute-of-day to its session label.
func ClassifyMinute(minute int) Label {
	switch {
	case minute >= sydneyStart && minute < sydneyTokyoStart:
		return Sydney
	case minute >= sydneyTokyoStart && minute < tokyoStart:
		return SydneyTokyo
	case minute >= tokyoStart && minute < tokyoLondonStart:
		return Tokyo
	case minute >= tokyoLondonStart && minute < londonStart:
		return TokyoLondon
	case minute >= londonStart && minute < londonNYStart:
		return London
	case minute >= londonNYStart && minute < newYorkStart:
		return LondonNewYork
	case minute >= newYorkStart || (minute >= 0 && minute < sydneyStart):
		return NewYork
	}
	// Unreachable for in-range input; availability over correctness for the rest.
	return London
}

// Classify maps a wall-clock instant to its session label.
func Classify(t time.Time) Label {
	return ClassifyMinute(t.Hour()*60 + t.Minute())
}

// FromTimestamp extracts the time-of-day from a raw broker timestamp string
// ("2025.10.31 21:31:42", ISO, or date-only) and classifies it. Any input
// without a recognizable time component defaults to noon, whether it is a
// bare date or not a timestamp at all; the London fallback stays reserved
// for out-of-range minutes inside ClassifyMinute.
func FromTimestamp(raw string) Label {
	m := timeOfDayRe.FindStringSubmatch(raw)
	if m == nil {
		return ClassifyMinute(noonMinute)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return ClassifyMinute(hours*60 + minutes)
}
