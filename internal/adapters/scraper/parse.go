package scraper

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/okian/medals/internal/adapters/loader"
	"github.com/okian/medals/internal/domain/model"
)

type column int

const (
	colUnknown column = iota
	colRank
	colNation
	colGold
	colSilver
	colBronze
	colTotal
)

// ParseMedalTable extracts the medal table of one Games from a Wikipedia
// article. The first wikitable whose header names a nation column and a
// gold column is used; rank cells spanning tied rows are carried down.
func ParseMedalTable(r io.Reader, year int) ([]model.MedalRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	for _, table := range findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "wikitable")
	}) {
		if records := parseTable(table, year); len(records) > 0 {
			return records, nil
		}
	}
	return nil, ErrNoMedalTable
}

func parseTable(table *html.Node, year int) []model.MedalRecord {
	rows := findAll(table, func(n *html.Node) bool { return n.DataAtom == atom.Tr })
	if len(rows) < 2 {
		return nil
	}

	var (
		cols      []column
		headerIdx = -1
	)
	for i, tr := range rows {
		if c, ok := headerColumns(tr); ok {
			cols, headerIdx = c, i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	type carry struct {
		text string
		left int
	}
	pending := make([]carry, len(cols))
	var out []model.MedalRecord
	for _, tr := range rows[headerIdx+1:] {
		cells := cellsOf(tr)
		values := make([]string, len(cols))
		next := 0
		for c := 0; c < len(cols); c++ {
			if pending[c].left > 0 {
				values[c] = pending[c].text
				pending[c].left--
				continue
			}
			if next >= len(cells) {
				break
			}
			cell := cells[next]
			next++
			text := cellText(cell)
			span := intAttr(cell, "colspan", 1)
			rowspan := intAttr(cell, "rowspan", 1)
			for k := 0; k < span && c+k < len(cols); k++ {
				values[c+k] = text
				if rowspan > 1 {
					pending[c+k] = carry{text: text, left: rowspan - 1}
				}
			}
			c += span - 1
		}
		if rec, ok := toRecord(cols, values, year); ok {
			out = append(out, rec)
		}
	}
	return out
}

func headerColumns(tr *html.Node) ([]column, bool) {
	cells := cellsOf(tr)
	if len(cells) == 0 {
		return nil, false
	}
	var cols []column
	hasGold, hasNation := false, false
	for _, cell := range cells {
		if cell.DataAtom != atom.Th {
			return nil, false
		}
		c := classify(strings.ToLower(cellText(cell)))
		hasGold = hasGold || c == colGold
		hasNation = hasNation || c == colNation
		for k := 0; k < intAttr(cell, "colspan", 1); k++ {
			cols = append(cols, c)
		}
	}
	return cols, hasGold && hasNation
}

func classify(h string) column {
	switch {
	case strings.Contains(h, "rank"), h == "pos", h == "rk":
		return colRank
	case strings.Contains(h, "nation"), strings.Contains(h, "noc"),
		strings.Contains(h, "country"), strings.Contains(h, "team"):
		return colNation
	case strings.Contains(h, "gold"):
		return colGold
	case strings.Contains(h, "silver"):
		return colSilver
	case strings.Contains(h, "bronze"):
		return colBronze
	case strings.Contains(h, "total"):
		return colTotal
	}
	return colUnknown
}

func toRecord(cols []column, values []string, year int) (model.MedalRecord, bool) {
	rec := model.MedalRecord{Year: year}
	for i, c := range cols {
		v := strings.TrimSpace(values[i])
		var dst *int
		switch c {
		case colNation:
			rec.Nation = loader.CleanNation(v)
			continue
		case colRank:
			dst = &rec.Rank
			v = strings.TrimPrefix(v, "=")
		case colGold:
			dst = &rec.Gold
		case colSilver:
			dst = &rec.Silver
		case colBronze:
			dst = &rec.Bronze
		case colTotal:
			dst = &rec.Total
		default:
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			if c == colRank {
				continue
			}
			return model.MedalRecord{}, false
		}
		*dst = n
	}
	if rec.Nation == "" || strings.HasPrefix(strings.ToLower(rec.Nation), "total") {
		return model.MedalRecord{}, false
	}
	if rec.Total == 0 {
		rec.Total = rec.Gold + rec.Silver + rec.Bronze
	}
	return rec, true
}

func cellsOf(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td || c.DataAtom == atom.Th {
			cells = append(cells, c)
		}
	}
	return cells
}

// cellText concatenates the visible text of n, skipping footnote markers.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			return
		case n.DataAtom == atom.Sup, n.DataAtom == atom.Style, n.DataAtom == atom.Script:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func intAttr(n *html.Node, key string, def int) int {
	for _, a := range n.Attr {
		if a.Key == key {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return def
}
