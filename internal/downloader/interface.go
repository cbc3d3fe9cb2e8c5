package downloader

import (
	"context"
)

// ProgressCallback reports download progress. total is -1 when the server
// did not announce a length.
type ProgressCallback func(written, total int64)

// Downloader fetches a remote audio stream into a local file.
type Downloader interface {
	// Download stores the body of url at outputPath and returns the number
	// of bytes written. progressCallback can be nil.
	Download(ctx context.Context, url, outputPath string, progressCallback ProgressCallback) (int64, error)
}
