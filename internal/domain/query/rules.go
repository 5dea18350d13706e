package query

import (
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/fold"
)

// RuleKind groups classification rules by what they imply.
type RuleKind int

const (
	// KindPositional asks for the nation at a fixed place of the table.
	KindPositional RuleKind = iota + 1
	// KindStanding asks where someone finished. With a country it becomes
	// a lookup, since the lookup answer carries the rank.
	KindStanding
	// KindRanking asks for the leader by medal count.
	KindRanking
)

func (k RuleKind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindStanding:
		return "standing"
	case KindRanking:
		return "ranking"
	}
	return "unknown"
}

// Rule maps keyword patterns to an intent. Patterns are folded text; a
// trailing '*' matches a word prefix, anything else a whole word or phrase.
type Rule struct {
	Name     string
	Kind     RuleKind
	Position int // for KindPositional
	Patterns []string
}

// Rules is evaluated top to bottom; the first rule with a matching pattern
// decides the intent.
var Rules = []Rule{
	{Name: "first", Kind: KindPositional, Position: 1, Patterns: []string{"primer*", "first"}},
	{Name: "second", Kind: KindPositional, Position: 2, Patterns: []string{"segund*", "second"}},
	{Name: "third", Kind: KindPositional, Position: 3, Patterns: []string{"tercer*", "third"}},
	{Name: "last", Kind: KindPositional, Position: model.PositionLast, Patterns: []string{"ultim*", "last", "peor*", "worst"}},
	{Name: "standing", Kind: KindStanding, Patterns: []string{"puesto", "posicion", "position", "quedo", "ranking", "lugar"}},
	{Name: "leader", Kind: KindRanking, Patterns: []string{
		"mas medallas", "most medals", "mas oros", "most gold",
		"top", "quien", "who", "lider*", "leader*", "mayor", "greater", "mejor*", "best",
	}},
}

// medalRules pick the medal type of ranking questions; the default is total.
var medalRules = []struct {
	medal    model.MedalType
	patterns []string
}{
	{model.MedalGold, []string{"oro", "oros", "gold*"}},
	{model.MedalSilver, []string{"plata*", "silver*"}},
	{model.MedalBronze, []string{"bronce*", "bronze*"}},
}

// Classify returns the first rule matching folded text.
func Classify(folded string) (Rule, bool) {
	for _, r := range Rules {
		if matchAny(folded, r.Patterns) {
			return r, true
		}
	}
	return Rule{}, false
}

// MedalTypeOf returns the medal type named in folded text, or total.
func MedalTypeOf(folded string) model.MedalType {
	for _, r := range medalRules {
		if matchAny(folded, r.patterns) {
			return r.medal
		}
	}
	return model.MedalTotal
}

func matchAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if fold.Match(text, p) {
			return true
		}
	}
	return false
}
