package cli

import "errors"

var (
	// ErrSetup wraps everything that keeps a run from starting: a broken
	// config, a missing target directory, unreachable storage.
	ErrSetup = errors.New("setup failed")

	// ErrBroadcastsFailed is returned when at least one broadcast of a run
	// could not be saved.
	ErrBroadcastsFailed = errors.New("some broadcasts failed")

	// ErrTargetDir indicates the target directory does not exist.
	ErrTargetDir = errors.New("target directory does not exist")
)
