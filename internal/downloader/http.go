package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultChunkSize = 128 * 1024

// HTTPDownloader streams audio over HTTP into a file, retrying failed
// attempts from scratch.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
	chunkSize int
	retry     RetryConfig
}

// Options configures an HTTPDownloader.
type Options struct {
	UserAgent string
	ChunkSize int
	Retry     RetryConfig
	// Timeout bounds the wait for the response headers. The body of a
	// broadcast takes far longer than any sensible request timeout.
	Timeout time.Duration
}

// NewHTTPDownloader creates a new HTTP downloader
func NewHTTPDownloader(opts Options) *HTTPDownloader {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &HTTPDownloader{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: opts.Timeout,
			},
		},
		userAgent: opts.UserAgent,
		chunkSize: chunkSize,
		retry:     opts.Retry,
	}
}

// Download fetches url into outputPath. A failed attempt truncates the file
// and starts over.
func (d *HTTPDownloader) Download(ctx context.Context, url, outputPath string, progressCallback ProgressCallback) (int64, error) {
	var written int64
	err := retry(ctx, d.retry, func() error {
		var err error
		written, err = d.downloadOnce(ctx, url, outputPath, progressCallback)
		return err
	}, isRetryable)
	if err != nil {
		os.Remove(outputPath)
		return 0, err
	}

	slog.Info("Downloaded audio file", "path", outputPath, "size", written)
	return written, nil
}

func (d *HTTPDownloader) downloadOnce(ctx context.Context, url, outputPath string, progressCallback ProgressCallback) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &statusError{code: resp.StatusCode}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	written, err := d.copyChunks(outFile, resp.Body, resp.ContentLength, progressCallback)
	if err != nil {
		return written, fmt.Errorf("failed to save file: %w", err)
	}
	if written == 0 {
		return 0, ErrEmptyDownload
	}
	if err := outFile.Sync(); err != nil {
		return written, fmt.Errorf("failed to save file: %w", err)
	}

	if err := validateAudioFile(outputPath); err != nil {
		return written, fmt.Errorf("downloaded file validation failed: %w", err)
	}

	return written, nil
}

// copyChunks copies src to dst in chunks of d.chunkSize, reporting
// progress after every chunk.
func (d *HTTPDownloader) copyChunks(dst io.Writer, src io.Reader, total int64, progressCallback ProgressCallback) (int64, error) {
	buf := make([]byte, d.chunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if progressCallback != nil {
				progressCallback(written, total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// validateAudioFile performs basic validation to ensure the downloaded file is likely an audio file
func validateAudioFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file for validation: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to check file signature
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}

	if n < 4 {
		return fmt.Errorf("%w: file too small to be a valid audio file", ErrNotAudio)
	}

	header := buffer[:n]

	// MP3 signatures
	if header[0] == 0xFF && (header[1]&0xE0) == 0xE0 {
		return nil // MP3 frame header
	}
	if string(header[:3]) == "ID3" {
		return nil // MP3 with ID3 tag
	}

	// Check if it looks like HTML/text (common when download fails)
	headerStr := strings.ToLower(string(header[:min(len(header), 100)]))
	if strings.Contains(headerStr, "<html") || strings.Contains(headerStr, "<!doctype") {
		return fmt.Errorf("%w: downloaded file appears to be HTML - check the download URL", ErrNotAudio)
	}
	if strings.Contains(headerStr, "error") || strings.Contains(headerStr, "not found") {
		return fmt.Errorf("%w: downloaded file appears to contain an error message - check the download URL", ErrNotAudio)
	}

	// Log warning but don't fail - the decoder will resync on the first frame
	slog.Warn("Could not verify audio file format, proceeding anyway", "path", filePath, "header", fmt.Sprintf("%x", header[:min(len(header), 16)]))
	return nil
}
