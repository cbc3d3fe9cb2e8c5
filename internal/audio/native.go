package audio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tcolgate/mp3"

	"github.com/jaki95/showcut/internal/timeline"
)

// CutStats summarises a native cut.
type CutStats struct {
	FramesRead    int
	FramesWritten int
	// Output is the playback length of the written frames.
	Output time.Duration
}

// NativeCutter cuts MPEG audio in process by copying whole frames.
type NativeCutter struct{}

func NewNativeCutter() *NativeCutter {
	return &NativeCutter{}
}

func (n *NativeCutter) Cut(ctx context.Context, p CutParams) error {
	if err := validateFile(p.InputPath); err != nil {
		return fmt.Errorf("audio cutting failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(p.OutputPath); err != nil {
		return err
	}

	in, err := os.Open(p.InputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(p.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	w := bufio.NewWriter(out)
	stats, err := CutStream(in, w, p.Keepmarks)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(p.OutputPath)
		return err
	}

	slog.Debug("Cut audio",
		"input", p.InputPath,
		"keepmarks", len(p.Keepmarks),
		"framesRead", stats.FramesRead,
		"framesWritten", stats.FramesWritten,
		"duration", stats.Output,
	)
	return nil
}

// CutStream copies the MPEG audio frames of src whose start time lies
// within one of the keepmarks to dst. Frames are never re-encoded, so cuts
// land on frame boundaries. A leading ID3v2 tag and a Xing/Info header
// frame are dropped. Reading stops once the last keepmark is passed.
func CutStream(src io.Reader, dst io.Writer, keepmarks []timeline.Interval) (CutStats, error) {
	var stats CutStats
	if len(keepmarks) == 0 {
		return stats, ErrNoKeepmarks
	}

	r := bufio.NewReader(src)
	if err := skipID3v2(r); err != nil {
		return stats, err
	}

	var (
		dec     = mp3.NewDecoder(r)
		frame   mp3.Frame
		skipped int
		pos     time.Duration
		current int
		buf     bytes.Buffer
	)

	for current < len(keepmarks) {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return stats, fmt.Errorf("failed to decode frame %d: %w", stats.FramesRead, err)
		}

		buf.Reset()
		if _, err := buf.ReadFrom(frame.Reader()); err != nil {
			return stats, fmt.Errorf("failed to read frame %d: %w", stats.FramesRead, err)
		}

		stats.FramesRead++
		if stats.FramesRead == 1 && isInfoFrame(buf.Bytes()) {
			continue
		}

		ts := pos.Milliseconds()
		pos += frame.Duration()

		for current < len(keepmarks) && ts >= keepmarks[current].End {
			current++
		}
		if current == len(keepmarks) {
			break
		}
		if ts < keepmarks[current].Start {
			continue
		}

		if _, err := dst.Write(buf.Bytes()); err != nil {
			return stats, fmt.Errorf("failed to write frame: %w", err)
		}
		stats.FramesWritten++
		stats.Output += frame.Duration()
	}

	if stats.FramesRead == 0 {
		return stats, ErrNoFrames
	}
	return stats, nil
}

// skipID3v2 discards an ID3v2 tag at the start of r, if there is one.
func skipID3v2(r *bufio.Reader) error {
	header, err := r.Peek(10)
	if err != nil || !bytes.HasPrefix(header, []byte("ID3")) {
		return nil
	}

	size := 0
	for _, b := range header[6:10] {
		if b&0x80 != 0 {
			return ErrCorruptID3
		}
		size = size<<7 | int(b)
	}
	size += 10
	if header[5]&0x10 != 0 {
		size += 10
	}

	if _, err := r.Discard(size); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptID3, err)
	}
	return nil
}

// vbriOffset is where a VBRI header starts: right after 32 bytes of
// side information, whatever the MPEG version.
const vbriOffset = 4 + 32

// isInfoFrame reports whether frame carries a Xing, Info or VBRI header
// instead of audio.
func isInfoFrame(frame []byte) bool {
	if len(frame) < 4 {
		return false
	}
	offset := infoTagOffset(frame)
	return hasTagAt(frame, offset, "Xing") ||
		hasTagAt(frame, offset, "Info") ||
		hasTagAt(frame, vbriOffset, "VBRI")
}

// infoTagOffset returns where a Xing or Info tag starts, which is after the
// frame header and the Layer III side information.
func infoTagOffset(frame []byte) int {
	mpeg1 := frame[1]>>3&0x03 == 0x03
	mono := frame[3]>>6 == 0x03
	switch {
	case mpeg1 && mono:
		return 4 + 17
	case mpeg1:
		return 4 + 32
	case mono:
		return 4 + 9
	default:
		return 4 + 17
	}
}

func hasTagAt(frame []byte, offset int, tag string) bool {
	return len(frame) >= offset+len(tag) && string(frame[offset:offset+len(tag)]) == tag
}
