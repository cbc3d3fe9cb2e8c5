package timeline

import (
	"cmp"
	"slices"

	"github.com/jaki95/showcut/internal/domain"
)

// Align re-times chapters from the original timeline onto the timeline
// left after everything outside keepmarks has been removed.
//
// Each chapter starts where its first overlapping keepmark portion begins
// and ends where its last overlapping portion ends, both shifted left by
// the total amount of audio removed before that keepmark. Chapters that no
// longer overlap any keepmark, or would end up without a positive duration,
// are dropped. Ends are clamped to the retained duration.
func Align(chapters []domain.Chapter, keepmarks []Interval) []domain.Chapter {
	ordered := slices.Clone(chapters)
	slices.SortStableFunc(ordered, func(a, b domain.Chapter) int {
		return cmp.Compare(a.Start, b.Start)
	})
	keepmarks = sorted(keepmarks)

	retained := TotalDuration(keepmarks)
	gaps := gapsBefore(keepmarks)

	aligned := make([]domain.Chapter, 0, len(ordered))
	for _, c := range ordered {
		start, ok := alignedStart(c, keepmarks, gaps)
		if !ok {
			continue
		}
		end, ok := alignedEnd(c, keepmarks, gaps)
		if !ok {
			continue
		}
		if start >= end {
			continue
		}

		c.Start = start
		c.End = min(end, retained)
		aligned = append(aligned, c)
	}
	return aligned
}

// gapsBefore returns, per keepmark, the total removed time before its start.
func gapsBefore(keepmarks []Interval) []int64 {
	gaps := make([]int64, len(keepmarks))
	var gap, previousEnd int64
	for i, km := range keepmarks {
		gap += km.Start - previousEnd
		previousEnd = km.End
		gaps[i] = gap
	}
	return gaps
}

func alignedStart(c domain.Chapter, keepmarks []Interval, gaps []int64) (int64, bool) {
	for i, km := range keepmarks {
		if c.End < km.Start {
			return 0, false
		}
		if c.Start <= km.End {
			return max(c.Start, km.Start) - gaps[i], true
		}
	}
	return 0, false
}

func alignedEnd(c domain.Chapter, keepmarks []Interval, gaps []int64) (int64, bool) {
	for i := len(keepmarks) - 1; i >= 0; i-- {
		km := keepmarks[i]
		if c.Start > km.End {
			return 0, false
		}
		if c.End >= km.Start {
			return min(c.End, km.End) - gaps[i], true
		}
	}
	return 0, false
}
