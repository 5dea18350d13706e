// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// MedalRecord is one row of the medal table: a nation's tally in one
// Summer Olympic year.
type MedalRecord struct {
	Nation string
	Year   int
	Gold   int
	Silver int
	Bronze int
	Total  int
	Rank   int // 1 = best, unique within a year
}

// MedalType selects which count of a MedalRecord is compared.
type MedalType string

const (
	MedalGold   MedalType = "gold"
	MedalSilver MedalType = "silver"
	MedalBronze MedalType = "bronze"
	MedalTotal  MedalType = "total"
)

// Count returns the record's count for t. Unknown types count as total.
func (t MedalType) Count(r MedalRecord) int {
	switch t {
	case MedalGold:
		return r.Gold
	case MedalSilver:
		return r.Silver
	case MedalBronze:
		return r.Bronze
	default:
		return r.Total
	}
}

// Spanish returns the phrase used in answer sentences.
func (t MedalType) Spanish() string {
	switch t {
	case MedalGold:
		return "oro"
	case MedalSilver:
		return "plata"
	case MedalBronze:
		return "bronce"
	default:
		return "total"
	}
}

// ParseMedalType accepts the English names and their Spanish equivalents.
// An empty string means total.
func ParseMedalType(s string) (MedalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "total", "all":
		return MedalTotal, nil
	case "gold", "oro":
		return MedalGold, nil
	case "silver", "plata":
		return MedalSilver, nil
	case "bronze", "bronce":
		return MedalBronze, nil
	}
	return "", fmt.Errorf("unknown medal type %q", s)
}

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentRanking    Intent = "ranking"
	IntentLookup     Intent = "lookup"
	IntentUnresolved Intent = "unresolved"
)

// PositionLast marks a request for the worst-ranked nation of a year.
const PositionLast = -1

// ParsedQuery is what the resolver understood from a question.
type ParsedQuery struct {
	Year         int // 0 when the question names no year and the dataset is empty
	YearExplicit bool
	Medal        MedalType
	Intent       Intent
	Position     int    // 0 = none, PositionLast = last
	Country      string // canonical name, empty when none recognized
}

// ReloadRequest asks the service to reload and republish the dataset.
type ReloadRequest struct {
	Reason      string
	RequestedAt time.Time
}
