package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/simonhull/audiometa"
)

// Chapter is a chapter as read back from a written file.
type Chapter struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// Summary is what a player would see when opening a written file.
type Summary struct {
	Format   string
	Title    string
	Album    string
	Artist   string
	Duration time.Duration
	Chapters []Chapter
}

// Inspect reads the tags of the file at path.
func Inspect(ctx context.Context, path string) (*Summary, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}
	defer file.Close()

	s := &Summary{
		Format:   file.Format.String(),
		Title:    file.Tags.Title,
		Album:    file.Tags.Album,
		Artist:   file.Tags.Artist,
		Duration: file.Audio.Duration,
		Chapters: make([]Chapter, 0, len(file.Chapters)),
	}
	for _, c := range file.Chapters {
		s.Chapters = append(s.Chapters, Chapter{
			Title: c.Title,
			Start: c.StartTime,
			End:   c.EndTime,
		})
	}
	return s, nil
}

// Verify reads back the tags of the file at path and logs a warning when
// they do not match m. Problems are never fatal; the audio is already
// written.
func Verify(ctx context.Context, path string, m Metadata) {
	s, err := Inspect(ctx, path)
	if err != nil {
		slog.Warn("Could not read back tags", "path", path, "error", err)
		return
	}

	if len(s.Chapters) != len(m.Chapters) {
		slog.Warn("Chapter count mismatch after tagging",
			"path", path,
			"written", len(m.Chapters),
			"read", len(s.Chapters))
	}
	if s.Title != m.Title {
		slog.Warn("Title mismatch after tagging", "path", path, "written", m.Title, "read", s.Title)
	}
}
