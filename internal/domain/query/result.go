package query

import "github.com/okian/medals/internal/domain/model"

// Outcome tags a Result.
type Outcome string

const (
	// OutcomeAnswer carries a deterministic answer.
	OutcomeAnswer Outcome = "answer"
	// OutcomeUnresolved means the question could not be classified; callers
	// may try another strategy.
	OutcomeUnresolved Outcome = "unresolved"
	// OutcomeNoData means the question was understood but the dataset has
	// no matching rows. It is final.
	OutcomeNoData Outcome = "no_data"
)

// Cause explains a NoData result.
type Cause string

const (
	CauseNone     Cause = ""
	CauseEmpty    Cause = "empty_dataset"
	CauseYear     Cause = "year"
	CauseCountry  Cause = "country"
	CausePosition Cause = "position"
)

// Result is the resolver's answer to one question.
type Result struct {
	Outcome Outcome
	Text    string // answer sentence, set for OutcomeAnswer
	Reason  string // set for OutcomeNoData
	Cause   Cause
	// Records are the rows backing the answer, so callers can re-render or
	// verify it.
	Records []model.MedalRecord
	Parsed  model.ParsedQuery
}

func answer(p model.ParsedQuery, text string, recs ...model.MedalRecord) Result {
	return Result{Outcome: OutcomeAnswer, Text: text, Records: recs, Parsed: p}
}

func noData(p model.ParsedQuery, cause Cause, reason string) Result {
	return Result{Outcome: OutcomeNoData, Reason: reason, Cause: cause, Parsed: p}
}

func unresolved(p model.ParsedQuery) Result {
	return Result{Outcome: OutcomeUnresolved, Parsed: p}
}
