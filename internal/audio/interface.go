package audio

import (
	"context"

	"github.com/jaki95/showcut/internal/timeline"
)

// Cutter removes everything outside the keepmarks from an audio file.
type Cutter interface {
	Cut(ctx context.Context, p CutParams) error
}

type CutParams struct {
	InputPath  string
	OutputPath string
	// Keepmarks to retain, sorted and non-overlapping, in milliseconds
	// relative to the start of the input.
	Keepmarks []timeline.Interval
}
