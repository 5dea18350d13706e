// Package types contains common types used across the application
package types

import "github.com/okian/medals/internal/domain/model"

// MedalEntry is the wire form of a medal table row.
type MedalEntry struct {
	Rank   int    `json:"rank"`
	Nation string `json:"nation"`
	Year   int    `json:"year"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
}

// StandingEntry is a MedalEntry placed in an ordered standings list.
// Position is 1-based within the list; Count is the compared medal count.
type StandingEntry struct {
	Position int `json:"position"`
	Count    int `json:"count"`
	MedalEntry
}

// Document is a semantic store hit.
type Document struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// NewMedalEntry converts a model record to its wire form.
func NewMedalEntry(r model.MedalRecord) MedalEntry {
	return MedalEntry{
		Rank:   r.Rank,
		Nation: r.Nation,
		Year:   r.Year,
		Gold:   r.Gold,
		Silver: r.Silver,
		Bronze: r.Bronze,
		Total:  r.Total,
	}
}

// NewMedalEntries converts records in order.
func NewMedalEntries(records []model.MedalRecord) []MedalEntry {
	out := make([]MedalEntry, len(records))
	for i, r := range records {
		out[i] = NewMedalEntry(r)
	}
	return out
}
