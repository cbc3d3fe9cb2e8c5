package chapters

import (
	"cmp"
	"slices"

	"github.com/jaki95/showcut/internal/domain"
)

// TOCElementID is the element id of the top level table of contents.
const TOCElementID = "toc"

// Schedule prepares chapters for writing as ID3 CHAP frames.
//
// ID3 does not allow two chapters to start at the same time, so chapters
// are ordered by start with longer chapters first, and every start is
// pushed to at least one millisecond after the previous one. Ends are
// clamped to the total duration of the audio.
func Schedule(chapters []domain.Chapter, total int64) []domain.Chapter {
	ordered := slices.Clone(chapters)
	slices.SortStableFunc(ordered, func(a, b domain.Chapter) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.Duration(), a.Duration())
	})

	previous := int64(-1)
	for i := range ordered {
		start := max(ordered[i].Start, previous+1)
		previous = start

		ordered[i].Start = max(0, start)
		ordered[i].End = max(min(ordered[i].End, total), ordered[i].Start)
	}
	return ordered
}

// TableOfContents returns the element ids of the visible chapters, in order.
func TableOfContents(chapters []domain.Chapter) []string {
	ids := make([]string, 0, len(chapters))
	for _, c := range chapters {
		if !c.Hidden {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
