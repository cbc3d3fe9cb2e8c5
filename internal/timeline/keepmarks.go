package timeline

import (
	"cmp"
	"slices"

	"github.com/jaki95/showcut/internal/domain"
)

// BuildKeepmarks turns the broadcaster's in/out markers into keepmarks.
//
// Markers are scanned in timestamp order. An "in" marker sets the pending
// start, an "out" marker the pending end; once both are set a keepmark is
// emitted and the pair is reset. Unmatched trailing markers, unknown marker
// types and pairs that do not form a positive range are dropped. When no
// keepmark survives the whole broadcast is kept.
func BuildKeepmarks(marks []domain.Mark, broadcastStart, broadcastEnd int64) []Interval {
	duration := broadcastEnd - broadcastStart

	ordered := slices.Clone(marks)
	slices.SortStableFunc(ordered, func(a, b domain.Mark) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	var (
		keepmarks  []Interval
		start, end *int64
	)
	for _, mark := range ordered {
		switch mark.Type {
		case domain.MarkIn:
			v := max(mark.Timestamp, broadcastStart)
			start = &v
		case domain.MarkOut:
			v := min(mark.Timestamp, broadcastEnd)
			end = &v
		default:
			continue
		}

		if start == nil || end == nil {
			continue
		}

		km := Interval{Start: *start - broadcastStart, End: *end - broadcastStart}
		start, end = nil, nil

		km.Start = max(km.Start, 0)
		km.End = min(km.End, duration)
		if km.Empty() {
			continue
		}
		// Clamping can make a later pair reach back into an earlier one.
		if n := len(keepmarks); n > 0 && km.Start < keepmarks[n-1].End {
			km.Start = keepmarks[n-1].End
			if km.Empty() {
				continue
			}
		}
		keepmarks = append(keepmarks, km)
	}

	if len(keepmarks) == 0 {
		return FullSpan(duration)
	}
	return keepmarks
}
