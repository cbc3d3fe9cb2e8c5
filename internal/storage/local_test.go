package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/showcut/config"
)

func TestLocalFileStorage(t *testing.T) {
	ctx := context.Background()
	outputDir := filepath.Join(t.TempDir(), "out")
	tempDir := filepath.Join(t.TempDir(), "tmp")

	s, err := NewLocalFileStorage(outputDir, tempDir)
	require.NoError(t, err)
	assert.DirExists(t, outputDir)
	assert.DirExists(t, tempDir)

	const name = "FM4 Show 2024-01-02 19:00.mp3"

	exists, err := s.Exists(ctx, name)
	require.NoError(t, err)
	assert.False(t, exists)

	work, err := s.TempPath(name, TempSuffix)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, name+".temp"), work)
	require.NoError(t, os.WriteFile(work, []byte("audio"), 0644))

	final, err := s.Commit(ctx, work, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, name), final)
	assert.Equal(t, final, s.Location(name))
	assert.NoFileExists(t, work)

	exists, err = s.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalFileStorage_EmptyFileDoesNotCount(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalFileStorage(dir, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.mp3"), nil, 0644))
	exists, err := s.Exists(context.Background(), "empty.mp3")
	require.NoError(t, err)
	assert.False(t, exists)

	work, err := s.TempPath("empty.mp3", ".download")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "empty.mp3.download"), work)
}

func TestLocalFileStorage_RejectsPaths(t *testing.T) {
	s, err := NewLocalFileStorage(t.TempDir(), "")
	require.NoError(t, err)

	for _, name := range []string{"", "..", "a/b.mp3", "../escape.mp3"} {
		_, err := s.TempPath(name, TempSuffix)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		_, err = s.Commit(context.Background(), "whatever", name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestMoveAcrossDevices(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.mp3")
	dst := filepath.Join(t.TempDir(), "dst.mp3")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	require.NoError(t, moveAcrossDevices(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.NoFileExists(t, src)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Type: config.StorageLocal, OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalFileStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Type: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = New(context.Background(), config.StorageConfig{Type: config.StorageGCS})
	assert.ErrorIs(t, err, ErrMissingBucket)
}
