package service

import "errors"

var (
	// ErrNotStarted is returned by queries issued before Start.
	ErrNotStarted    = errors.New("service not started")
	ErrEmptyQuestion = errors.New("question must not be empty")
	ErrInvalidLimit  = errors.New("limit must be positive")
	// ErrUnknownYear means the dataset has no rows for the requested year.
	ErrUnknownYear = errors.New("year not in dataset")
)
