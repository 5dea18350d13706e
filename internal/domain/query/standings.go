package query

import (
	"slices"
	"sort"

	"github.com/okian/medals/internal/domain/model"
)

// Standings returns the rows of year ordered by the medal count (highest
// first), ties by ascending rank. limit <= 0 returns all rows. The input is
// not modified.
func Standings(records []model.MedalRecord, year int, medal model.MedalType, limit int) []model.MedalRecord {
	rows := filterYear(records, year)
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := medal.Count(rows[i]), medal.Count(rows[j])
		if ci != cj {
			return ci > cj
		}
		return rows[i].Rank < rows[j].Rank
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// ByRank returns the rows of year ordered by ascending rank.
func ByRank(records []model.MedalRecord, year int) []model.MedalRecord {
	rows := filterYear(records, year)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows
}

// Years returns the distinct years of records, most recent first.
func Years(records []model.MedalRecord) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range records {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			out = append(out, r.Year)
		}
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// LatestYear is the most recent year in records, or 0 when empty.
func LatestYear(records []model.MedalRecord) int {
	latest := 0
	for _, r := range records {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

func filterYear(records []model.MedalRecord, year int) []model.MedalRecord {
	var out []model.MedalRecord
	for _, r := range records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}
