// Package timeline implements the interval arithmetic used to trim a
// broadcast: building keep ranges from markers, subtracting unwanted
// chapters from them, and re-timing chapters onto the trimmed audio.
//
// All values are milliseconds relative to the start of the broadcast and
// all ranges are half-open: [Start, End).
package timeline

import (
	"cmp"
	"slices"
)

// Interval is a half-open range of milliseconds.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns End-Start.
func (i Interval) Duration() int64 {
	return i.End - i.Start
}

// Empty reports whether the interval is degenerate.
func (i Interval) Empty() bool {
	return i.End <= i.Start
}

// Overlap returns the length of the intersection of i and o.
func (i Interval) Overlap(o Interval) int64 {
	return max(0, min(i.End, o.End)-max(i.Start, o.Start))
}

// TotalDuration sums the durations of the given intervals.
func TotalDuration(intervals []Interval) int64 {
	var total int64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}

// FullSpan returns the keepmark list that keeps everything.
func FullSpan(duration int64) []Interval {
	return []Interval{{Start: 0, End: duration}}
}

// IsFullSpan reports whether keepmarks is exactly the trivial list that
// keeps the whole broadcast. Nothing needs to be cut or re-timed then.
func IsFullSpan(keepmarks []Interval, duration int64) bool {
	return len(keepmarks) == 1 && keepmarks[0] == Interval{Start: 0, End: duration}
}

// sorted returns a copy of intervals ordered by start.
func sorted(intervals []Interval) []Interval {
	out := slices.Clone(intervals)
	slices.SortStableFunc(out, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}
