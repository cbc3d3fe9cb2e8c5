package audio

import (
	"errors"
	"fmt"
	"os/exec"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrFileEmpty      = errors.New("file is empty")
	ErrInvalidPath    = errors.New("invalid path")
	ErrNoKeepmarks    = errors.New("no keepmarks given")
	ErrNoFrames       = errors.New("no audio frames found")
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrCorruptID3     = errors.New("corrupt id3 header")
)

// ffmpegError wraps FFmpeg command errors with additional context
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %s\nCommand: %s\nOutput: %s", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

// newFFmpegError creates a new ffmpegError with truncated command output
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	out := string(output)
	if len(out) > 2000 {
		out = "..." + out[len(out)-2000:]
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  out,
		wrapped: err,
	}
}
