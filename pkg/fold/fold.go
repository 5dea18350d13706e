// Package fold provides case and accent folding plus word-aware matching
// over folded text.
package fold

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String lower-cases s and strips combining marks, so "MÉXICO" and
// "mexico" fold to the same value and "España" folds to "espana".
// Runs of whitespace collapse to one space.
func String(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Tokens splits folded s into letter/digit runs.
func Tokens(s string) []string {
	return strings.FieldsFunc(String(s), func(r rune) bool { return !isWordRune(r) })
}

// IndexWord returns the byte offset of the first occurrence of word in text
// that starts and ends on a word boundary, or -1. Both arguments are
// expected to be folded already.
func IndexWord(text, word string) int {
	return index(text, word, true)
}

// IndexPrefix is like IndexWord but only the start must sit on a word
// boundary, so "tercer" is found in "tercero".
func IndexPrefix(text, word string) int {
	return index(text, word, false)
}

// Match reports whether pattern occurs in folded text. A trailing '*'
// turns the pattern into a word prefix; otherwise the whole word must match.
func Match(text, pattern string) bool {
	if p, ok := strings.CutSuffix(pattern, "*"); ok {
		return IndexPrefix(text, p) >= 0
	}
	return IndexWord(text, pattern) >= 0
}

func index(text, word string, wholeWord bool) int {
	if word == "" {
		return -1
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(text, start) && (!wholeWord || boundaryAfter(text, end)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
