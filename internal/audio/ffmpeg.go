package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpegCutter cuts audio with the ffmpeg concat demuxer. Every keepmark
// becomes one concat entry with an inpoint and outpoint on the same input,
// and the stream is copied, not re-encoded.
type FFmpegCutter struct {
	binary  string
	tempDir string
}

// FindFFmpeg resolves the ffmpeg binary. An empty path searches $PATH.
func FindFFmpeg(path string) (string, error) {
	if path == "" {
		path = "ffmpeg"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFFmpegNotFound, path)
	}
	return resolved, nil
}

// NewFFmpegCutter returns a cutter running binary. The concat list is
// written to tempDir, or the system temp directory when empty.
func NewFFmpegCutter(binary, tempDir string) *FFmpegCutter {
	return &FFmpegCutter{binary: binary, tempDir: tempDir}
}

func (f *FFmpegCutter) Cut(ctx context.Context, p CutParams) error {
	if len(p.Keepmarks) == 0 {
		return ErrNoKeepmarks
	}
	if err := validateFile(p.InputPath); err != nil {
		return fmt.Errorf("audio cutting failed: %w", err)
	}
	if err := ensureDir(p.OutputPath); err != nil {
		return err
	}

	inputPath, err := filepath.Abs(p.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	listPath, err := createTempFile(f.tempDir, "keepmarks_*.ffconcat")
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	if err := os.WriteFile(listPath, []byte(concatList(inputPath, p)), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	slog.Debug("Cutting audio with ffmpeg",
		"input", p.InputPath,
		"output", p.OutputPath,
		"keepmarks", len(p.Keepmarks),
	)

	cmd := exec.CommandContext(ctx, f.binary,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-map", "0:a",
		"-c", "copy",
		"-f", "mp3",
		p.OutputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}

	return validateFile(p.OutputPath)
}

// concatList renders an ffconcat script selecting the keepmarks of input.
func concatList(input string, p CutParams) string {
	quoted := strings.ReplaceAll(input, "'", `'\''`)

	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, km := range p.Keepmarks {
		fmt.Fprintf(&b, "file '%s'\n", quoted)
		fmt.Fprintf(&b, "inpoint %s\n", msToSeconds(km.Start))
		fmt.Fprintf(&b, "outpoint %s\n", msToSeconds(km.End))
	}
	return b.String()
}
