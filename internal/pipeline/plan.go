package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/chapters"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/timeline"
)

var (
	// ErrNothingToKeep means every part of a broadcast was cut away.
	ErrNothingToKeep = errors.New("nothing left to keep")
	ErrNoStream      = errors.New("broadcast has no audio stream")
)

// Options select what is removed from the broadcasts of a run.
type Options struct {
	// CutTypes are chapter types removed from the audio, e.g. "W" or "N".
	CutTypes []string
	// IgnoreMarks keeps the whole broadcast instead of the sections the
	// station recommends keeping.
	IgnoreMarks bool
	// NewestOnly processes the most recent broadcast only.
	NewestOnly bool
}

// ParseCutTypes splits a comma separated list of chapter types.
func ParseCutTypes(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Plan describes how one broadcast is turned into an output file.
type Plan struct {
	Broadcast domain.Broadcast
	Filename  string
	AudioURL  string
	// Keepmarks are the retained sections of the broadcast.
	Keepmarks []timeline.Interval
	// Chapters are timed against the retained audio.
	Chapters []domain.Chapter
	// Cut is false when the whole broadcast is kept.
	Cut bool
	// Err tells why the broadcast cannot be processed.
	Err error
}

// Duration returns the length of the retained audio in milliseconds.
func (p *Plan) Duration() int64 {
	return timeline.TotalDuration(p.Keepmarks)
}

// Emitted returns the chapters as they are written to the tag.
func (p *Plan) Emitted() []domain.Chapter {
	return chapters.Schedule(p.Chapters, p.Duration())
}

// BuildPlan computes the keepmarks and chapters of a broadcast.
func BuildPlan(b domain.Broadcast, opts Options, station config.StationConfig) (*Plan, error) {
	loc := station.Location()
	plan := &Plan{
		Broadcast: b,
		Filename:  Filename(station.Name, b, loc),
	}

	if len(b.Streams) == 0 || b.Streams[0].LoopStreamID == "" {
		return plan, ErrNoStream
	}
	plan.AudioURL = fmt.Sprintf(station.AudioURL, b.Streams[0].LoopStreamID)

	duration := b.Duration()
	chs := chapters.Extract(b)

	keepmarks := timeline.FullSpan(duration)
	if !opts.IgnoreMarks {
		keepmarks = timeline.BuildKeepmarks(b.Marks, b.Start, b.End)
	}

	if len(opts.CutTypes) > 0 {
		keepmarks = timeline.RemoveTypes(keepmarks, chs, opts.CutTypes)
		chs = timeline.FilterTypes(chs, opts.CutTypes)
	}

	plan.Keepmarks = keepmarks
	if timeline.TotalDuration(keepmarks) <= 0 {
		return plan, ErrNothingToKeep
	}

	plan.Cut = !timeline.IsFullSpan(keepmarks, duration)
	if plan.Cut {
		chs = timeline.Align(chs, keepmarks)
	}
	plan.Chapters = chs

	slog.Debug("Planned broadcast",
		"title", b.Title,
		"airdate", time.UnixMilli(b.Start).In(loc),
		"keepmarks", len(keepmarks),
		"chapters", len(chs),
		"retained", plan.Duration(),
		"duration", duration)
	return plan, nil
}
