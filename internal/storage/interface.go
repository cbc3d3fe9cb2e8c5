package storage

import (
	"context"
)

// TempSuffix marks a file that is still being prepared.
const TempSuffix = ".temp"

// Storage defines where finished broadcasts end up. Files are prepared
// locally under a temporary name and committed once complete, so a
// half-written file never shows up under its final name.
type Storage interface {
	// Exists reports whether a finished, non-empty file called name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// TempPath returns a local path for preparing name. suffix tells apart
	// the different intermediate files of one broadcast.
	TempPath(name, suffix string) (string, error)

	// Commit moves the prepared file at localPath to its final place and
	// returns the final location.
	Commit(ctx context.Context, localPath, name string) (string, error)

	// Location returns where name is, or would be, stored.
	Location(name string) string

	Close() error
}
