package timeline

import (
	"slices"

	"github.com/jaki95/showcut/internal/domain"
)

// RemoveTypes cuts every chapter whose type is in unwanted out of the
// keepmarks. Keepmarks are returned unchanged when no chapter matches.
func RemoveTypes(keepmarks []Interval, chapters []domain.Chapter, unwanted []string) []Interval {
	var cuts []Interval
	for _, c := range chapters {
		if slices.Contains(unwanted, c.Type) {
			cuts = append(cuts, Interval{Start: c.Start, End: c.End})
		}
	}
	if len(cuts) == 0 {
		return keepmarks
	}
	cuts = sorted(cuts)

	result := make([]Interval, 0, len(keepmarks))
	for _, km := range keepmarks {
		result = append(result, subtract(km, cuts)...)
	}
	return result
}

// FilterTypes drops the chapters whose type is in unwanted, preserving order.
func FilterTypes(chapters []domain.Chapter, unwanted []string) []domain.Chapter {
	kept := make([]domain.Chapter, 0, len(chapters))
	for _, c := range chapters {
		if !slices.Contains(unwanted, c.Type) {
			kept = append(kept, c)
		}
	}
	return kept
}

// subtract removes cuts (sorted by start) from keepmark and returns what is
// left, in order. Degenerate remainders are never returned.
func subtract(keepmark Interval, cuts []Interval) []Interval {
	var out []Interval
	current := keepmark

	for _, cut := range cuts {
		if current.Empty() {
			return out
		}
		// Sorted by start: nothing further can intersect.
		if cut.Start >= current.End {
			break
		}
		if cut.End <= current.Start {
			continue
		}
		if cut.Start <= current.Start && cut.End >= current.End {
			return out
		}
		if cut.Start > current.Start {
			out = append(out, Interval{Start: current.Start, End: cut.Start})
		}
		current = Interval{Start: cut.End, End: current.End}
	}

	if !current.Empty() {
		out = append(out, current)
	}
	return out
}
