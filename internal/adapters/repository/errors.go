package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoSnapshot = errors.New("no dataset snapshot published")
)
