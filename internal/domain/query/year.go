package query

import (
	"regexp"
	"strconv"
)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// ExtractYear returns the first 19xx/20xx token of text.
func ExtractYear(text string) (int, bool) {
	tok := yearPattern.FindString(text)
	if tok == "" {
		return 0, false
	}
	y, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return y, true
}
