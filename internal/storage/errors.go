package storage

import "errors"

var (
	ErrInvalidName   = errors.New("invalid file name")
	ErrUnknownType   = errors.New("unknown storage type")
	ErrMissingBucket = errors.New("gcs storage needs a bucket")
)
