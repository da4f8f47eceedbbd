package trade

import (
	"sort"
	"time"
)

// SortDescending returns a new slice ordered by resolved timestamp, most
// recent first. The sort is stable: trades sharing an instant keep their
// relative order, so re-sorting a sorted list is a no-op. The input is not
// mutated.
func SortDescending(trades []Trade, loc *time.Location) []Trade {
	type keyed struct {
		t  Trade
		ts int64
	}
	ks := make([]keyed, len(trades))
	for i, t := range trades {
		ks[i] = keyed{t: t, ts: ResolveTimestamp(t, loc).UnixMilli()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].ts > ks[j].ts
	})
	out := make([]Trade, len(ks))
	for i, k := range ks {
		out[i] = k.t
	}
	return out
}
