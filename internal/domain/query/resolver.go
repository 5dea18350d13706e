// Package query answers medal table questions deterministically.
//
// The Resolver classifies a question (ranking, lookup or unresolved),
// extracts the year, medal type, position and country, and answers from an
// immutable slice of records. It keeps no state between calls and is safe
// for concurrent use.
package query

import (
	"context"
	"strings"

	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/fold"
	"github.com/okian/medals/pkg/logger"
)

// Resolver answers questions over a medal dataset.
type Resolver struct {
	aliases *alias.Table
	log     logger.Logger
}

// New creates a resolver using the embedded alias table unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.aliases == nil {
		r.aliases = alias.Default()
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r
}

// Aliases returns the table the resolver matches countries with.
func (r *Resolver) Aliases() *alias.Table { return r.aliases }

// Resolve answers question over records. It never fails: anything it cannot
// answer becomes OutcomeUnresolved or OutcomeNoData.
func (r *Resolver) Resolve(ctx context.Context, question string, records []model.MedalRecord) Result {
	p := r.Parse(question, records)
	r.log.Debug(ctx, "parsed question",
		logger.String("intent", string(p.Intent)),
		logger.Int("year", p.Year),
		logger.Bool("year_explicit", p.YearExplicit),
		logger.String("medal", string(p.Medal)),
		logger.Int("position", p.Position),
		logger.String("country", p.Country),
	)

	switch p.Intent {
	case model.IntentRanking:
		if len(records) == 0 {
			return noData(p, CauseEmpty, reasonEmpty())
		}
		return rank(p, records)
	case model.IntentLookup:
		if len(records) == 0 {
			return noData(p, CauseEmpty, reasonEmpty())
		}
		return lookup(p, records)
	default:
		return unresolved(p)
	}
}

// Parse extracts the structured query from question. A missing year
// defaults to the most recent year in records.
func (r *Resolver) Parse(question string, records []model.MedalRecord) model.ParsedQuery {
	folded := fold.String(question)

	p := model.ParsedQuery{Medal: model.MedalTotal, Intent: model.IntentUnresolved}
	if y, ok := ExtractYear(folded); ok {
		p.Year, p.YearExplicit = y, true
	} else {
		p.Year = LatestYear(records)
	}
	p.Country = r.findCountry(folded, records)

	rule, matched := Classify(folded)
	switch {
	case matched && rule.Kind == KindPositional:
		p.Intent, p.Position = model.IntentRanking, rule.Position
	case matched && rule.Kind == KindStanding && p.Country != "":
		p.Intent = model.IntentLookup
	case matched:
		p.Intent = model.IntentRanking
	case p.Country != "":
		p.Intent = model.IntentLookup
	}
	if p.Intent == model.IntentRanking {
		p.Medal = MedalTypeOf(folded)
	}
	return p
}

// Lookup answers a direct country/year request. name may be a dataset
// nation or any alias; year 0 means the most recent year.
func (r *Resolver) Lookup(name string, year int, records []model.MedalRecord) Result {
	p := model.ParsedQuery{
		Year:         year,
		YearExplicit: year != 0,
		Medal:        model.MedalTotal,
		Intent:       model.IntentLookup,
		Country:      r.CanonicalCountry(name, records),
	}
	if p.Year == 0 {
		p.Year = LatestYear(records)
	}
	if len(records) == 0 {
		return noData(p, CauseEmpty, reasonEmpty())
	}
	return lookup(p, records)
}

// CanonicalCountry maps a bare country name to its dataset spelling. Names
// that match neither a nation nor an alias are returned trimmed.
func (r *Resolver) CanonicalCountry(name string, records []model.MedalRecord) string {
	folded := fold.String(name)
	for _, rec := range records {
		if fold.String(rec.Nation) == folded {
			return rec.Nation
		}
	}
	if c, ok := r.aliases.Lookup(folded); ok {
		return c
	}
	if c := r.findCountry(folded, records); c != "" {
		return c
	}
	return strings.TrimSpace(name)
}

// findCountry returns the canonical country named in folded text. The
// longest match wins; a dataset nation beats an alias of equal length.
func (r *Resolver) findCountry(folded string, records []model.MedalRecord) string {
	var nation, nationKey string
	seen := make(map[string]struct{})
	for _, rec := range records {
		k := fold.String(rec.Nation)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		if len(k) > len(nationKey) && fold.IndexWord(folded, k) >= 0 {
			nation, nationKey = rec.Nation, k
		}
	}

	m, ok := r.aliases.Find(folded)
	if ok && len(m.Alias) > len(nationKey) {
		return m.Country
	}
	return nation
}

func rank(p model.ParsedQuery, records []model.MedalRecord) Result {
	if p.Position != 0 {
		rows := ByRank(records, p.Year)
		if len(rows) == 0 {
			return noData(p, CauseYear, reasonYear(p.Year))
		}
		idx := p.Position - 1
		if p.Position == model.PositionLast {
			idx = len(rows) - 1
		}
		if idx < 0 || idx >= len(rows) {
			return noData(p, CausePosition, reasonPosition(p.Year, p.Position, len(rows)))
		}
		return answer(p, renderPosition(p.Year, p.Position, rows[idx]), rows[idx])
	}

	rows := Standings(records, p.Year, p.Medal, 1)
	if len(rows) == 0 {
		return noData(p, CauseYear, reasonYear(p.Year))
	}
	return answer(p, renderLeader(p.Year, p.Medal, rows[0]), rows[0])
}

func lookup(p model.ParsedQuery, records []model.MedalRecord) Result {
	yearSeen := false
	for _, rec := range records {
		if rec.Year != p.Year {
			continue
		}
		yearSeen = true
		if strings.EqualFold(strings.TrimSpace(rec.Nation), p.Country) {
			return answer(p, renderLookup(rec), rec)
		}
	}
	if !yearSeen {
		return noData(p, CauseYear, reasonYear(p.Year))
	}
	return noData(p, CauseCountry, reasonCountry(p.Country, p.Year))
}
