package downloader

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyDownload = errors.New("downloaded file is empty")
	ErrNotAudio      = errors.New("downloaded file is not audio")
	ErrBadStatus     = errors.New("unexpected status")
)

// statusError is returned for non-200 responses.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("download failed with status: %d %s", e.code, http.StatusText(e.code))
}

func (e *statusError) Unwrap() error {
	return ErrBadStatus
}

// isRetryable reports whether another attempt could succeed. Client errors
// other than 408 and 429 will not go away by retrying.
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusRequestTimeout || se.code == http.StatusTooManyRequests
	}
	return true
}
