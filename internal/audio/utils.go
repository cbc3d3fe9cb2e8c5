package audio

import (
	"fmt"
	"os"
	"path/filepath"
)

// msToSeconds formats a millisecond offset the way ffmpeg expects it.
func msToSeconds(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}

// validateFile checks that path is a regular, non-empty file.
func validateFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, path)
	}

	return nil
}

// createTempFile creates an empty file in dir (the system temp directory
// when dir is empty) and returns its path.
func createTempFile(dir, pattern string) (string, error) {
	tempFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()
	return tempPath, nil
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
