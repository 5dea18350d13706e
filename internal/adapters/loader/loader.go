// Package loader reads the medal table CSV into model records.
//
// Header names are normalized (case, spacing and punctuation ignored) and
// common synonyms accepted, so files produced by the scraper, by pandas or
// by hand load the same way. Missing required columns are a SchemaError.
// Bad rows are skipped and counted, never fatal.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/medals/internal/domain/dedupe"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/fold"
	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

// Canonical column names.
const (
	ColNation = "nation"
	ColYear   = "year"
	ColGold   = "gold"
	ColSilver = "silver"
	ColBronze = "bronze"
	ColTotal  = "total"
	ColRank   = "rank"
)

// Required columns; rank is optional.
var Required = []string{ColNation, ColGold, ColSilver, ColBronze, ColTotal, ColYear}

var synonyms = map[string]string{
	"nation": ColNation, "country": ColNation, "noc": ColNation, "team": ColNation,
	"teamnoc": ColNation, "nationnoc": ColNation, "pais": ColNation,
	"year": ColYear, "ano": ColYear, "edition": ColYear,
	"gold": ColGold, "oro": ColGold,
	"silver": ColSilver, "plata": ColSilver,
	"bronze": ColBronze, "bronce": ColBronze,
	"total": ColTotal,
	"rank": ColRank, "rk": ColRank, "position": ColRank, "puesto": ColRank,
}

var (
	footnotePattern    = regexp.MustCompile(`\[[^\]]*\]`)
	parentheticPattern = regexp.MustCompile(`\([^)]*\)`)
	markerReplacer     = strings.NewReplacer("*", "", "‡", "", "†", "", "§", "")
)

// Report summarizes a parse.
type Report struct {
	Rows         int // data rows read
	Loaded       int
	Skipped      int
	Duplicates   int
	RanksDerived bool
}

// Loader parses medal CSV files.
type Loader struct {
	log logger.Logger
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Nop()
	}
	return l
}

// LoadFile parses the CSV at path.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]model.MedalRecord, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return l.Parse(ctx, f)
}

// Parse reads a medal CSV. The first (nation, year) row wins; later
// duplicates are dropped. When the rank column is missing or zero for a
// year, ranks are derived for that year.
func (l *Loader) Parse(ctx context.Context, r io.Reader) ([]model.MedalRecord, Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Report{}, &SchemaError{Missing: Required}
		}
		return nil, Report{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	cols := mapHeader(header)
	var missing []string
	for _, c := range Required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, Report{}, &SchemaError{Missing: missing, Header: header}
	}

	var (
		rep     Report
		out     []model.MedalRecord
		seen    = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		unraked = map[int]bool{}
	)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("%w: line %d: %w", ErrRead, line, err)
		}
		rep.Rows++

		rec, reason := parseRow(row, cols)
		if reason != "" {
			rep.Skipped++
			l.log.Debug(ctx, "skipping row", logger.Int("line", line), logger.String("reason", reason))
			continue
		}
		if seen.SeenAndRecord(ctx, dedupe.RecordKey(rec.Nation, rec.Year)) {
			rep.Duplicates++
			l.log.Warn(ctx, "duplicate nation/year row dropped",
				logger.Int("line", line), logger.String("nation", rec.Nation), logger.Int("year", rec.Year))
			continue
		}
		if rec.Rank <= 0 {
			unraked[rec.Year] = true
		}
		out = append(out, rec)
	}

	if len(unraked) > 0 {
		DeriveRanks(out, unraked)
		rep.RanksDerived = true
	}
	rep.Loaded = len(out)
	metrics.RecordSkippedRows(rep.Skipped + rep.Duplicates)
	l.log.Info(ctx, "medal table parsed",
		logger.Int("rows", rep.Rows),
		logger.Int("loaded", rep.Loaded),
		logger.Int("skipped", rep.Skipped),
		logger.Int("duplicates", rep.Duplicates),
		logger.Bool("ranks_derived", rep.RanksDerived),
	)
	return out, rep, nil
}

// DeriveRanks assigns ranks within each year in years by gold, silver and
// bronze descending, then nation. Ranks are unique.
func DeriveRanks(records []model.MedalRecord, years map[int]bool) {
	byYear := map[int][]int{}
	for i, r := range records {
		if years[r.Year] {
			byYear[r.Year] = append(byYear[r.Year], i)
		}
	}
	for _, idx := range byYear {
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := records[idx[a]], records[idx[b]]
			switch {
			case ra.Gold != rb.Gold:
				return ra.Gold > rb.Gold
			case ra.Silver != rb.Silver:
				return ra.Silver > rb.Silver
			case ra.Bronze != rb.Bronze:
				return ra.Bronze > rb.Bronze
			}
			return ra.Nation < rb.Nation
		})
		for pos, i := range idx {
			records[i].Rank = pos + 1
		}
	}
}

// CleanNation strips footnote markers, parentheticals (NOC codes, host
// marks) and extra whitespace from a nation cell.
func CleanNation(s string) string {
	s = footnotePattern.ReplaceAllString(s, "")
	s = parentheticPattern.ReplaceAllString(s, "")
	s = markerReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func normalizeHeader(h string) string {
	return strings.Join(fold.Tokens(h), "")
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		c, ok := synonyms[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[c]; !dup {
			cols[c] = i
		}
	}
	return cols
}

func parseRow(row []string, cols map[string]int) (model.MedalRecord, string) {
	cell := func(c string) string {
		i, ok := cols[c]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	nation := CleanNation(cell(ColNation))
	switch {
	case nation == "":
		return model.MedalRecord{}, "empty nation"
	case strings.HasPrefix(strings.ToLower(nation), "total"):
		return model.MedalRecord{}, "totals row"
	case isNumeric(nation):
		return model.MedalRecord{}, "numeric nation"
	}

	rec := model.MedalRecord{Nation: nation}
	fields := []struct {
		col string
		dst *int
	}{
		{ColYear, &rec.Year}, {ColGold, &rec.Gold}, {ColSilver, &rec.Silver},
		{ColBronze, &rec.Bronze}, {ColTotal, &rec.Total},
	}
	for _, f := range fields {
		n, err := parseCount(cell(f.col))
		if err != nil || n < 0 {
			return model.MedalRecord{}, "bad " + f.col
		}
		*f.dst = n
	}
	if rec.Year == 0 {
		return model.MedalRecord{}, "missing year"
	}
	if v := cell(ColRank); v != "" {
		if n, err := parseCount(strings.TrimPrefix(v, "=")); err == nil && n > 0 {
			rec.Rank = n
		}
	}
	return rec, ""
}

// parseCount accepts integers written as floats ("10.0") or with
// thousands separators, as exported by spreadsheets.
func parseCount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not a count: %q", s)
	}
	return int(f), nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
