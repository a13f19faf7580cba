package services

import "errors"

// Chart service errors
var (
	// ErrNoDataset means nothing has been loaded yet, or the last load failed.
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrInvalidMode is returned for a draw request naming no known pivot.
	ErrInvalidMode = errors.New("invalid chart mode")

	// ErrInvalidFormat is returned for an unsupported export format.
	ErrInvalidFormat = errors.New("invalid export format")
)
