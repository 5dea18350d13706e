package scraper

import (
	"errors"
	"fmt"
)

// ErrNoMedalTable means the page has no recognizable medal table.
var ErrNoMedalTable = errors.New("no medal table found")

// StatusError is a non-200 HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}
