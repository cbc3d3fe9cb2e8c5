package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// LocalFileStorage implements the Storage interface for local filesystem
type LocalFileStorage struct {
	outputDir string
	tempDir   string
}

// NewLocalFileStorage creates a new local file storage instance. An empty
// tempDir prepares files next to their final location, which keeps the
// final rename atomic.
func NewLocalFileStorage(outputDir, tempDir string) (*LocalFileStorage, error) {
	if tempDir == "" {
		tempDir = outputDir
	}

	// Ensure directories exist
	for _, dir := range []string{outputDir, tempDir} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &LocalFileStorage{
		outputDir: outputDir,
		tempDir:   tempDir,
	}, nil
}

// Exists checks if a non-empty file exists
func (s *LocalFileStorage) Exists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(s.Location(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular() && info.Size() > 0, nil
}

// TempPath returns the path for preparing name in the temp directory
func (s *LocalFileStorage) TempPath(name, suffix string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.tempDir, name+suffix), nil
}

// Commit renames the prepared file into the output directory
func (s *LocalFileStorage) Commit(_ context.Context, localPath, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	finalPath := s.Location(name)
	err := os.Rename(localPath, finalPath)
	if errors.Is(err, syscall.EXDEV) {
		err = moveAcrossDevices(localPath, finalPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", localPath, finalPath, err)
	}
	return finalPath, nil
}

// Location returns the final path of name
func (s *LocalFileStorage) Location(name string) string {
	return filepath.Join(s.outputDir, name)
}

func (s *LocalFileStorage) Close() error {
	return nil
}

// moveAcrossDevices copies src next to dst, renames it into place and
// removes src.
func moveAcrossDevices(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + TempSuffix
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
