// Package alias holds the country alias table: localized and colloquial
// country names mapped to the canonical nation names of the medal table.
//
// The table is static data. The default table is embedded and parsed once;
// operators may supply a replacement YAML file with the same layout.
package alias

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.yaml.in/yaml/v3"

	"github.com/okian/medals/pkg/fold"
)

//go:embed aliases.yaml
var defaultYAML []byte

// Entry maps one alias to a canonical country.
type Entry struct {
	Alias   string `yaml:"alias"`
	Country string `yaml:"country"`
}

type document struct {
	Version int     `yaml:"version"`
	Aliases []Entry `yaml:"aliases"`
}

// Table is an immutable, ordered alias table.
type Table struct {
	version int
	entries []Entry  // as written
	keys    []string // folded aliases, parallel to entries
	index   map[string]int
}

// Match is an alias found inside a question.
type Match struct {
	Alias   string // folded key that matched
	Country string
	Offset  int // byte offset in the folded text
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded table. It panics if the embedded data is
// malformed, which is caught by the package tests.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("alias: embedded table: %v", defaultErr))
	}
	return defaultTable
}

// LoadFile parses an alias table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTable, err)
	}
	return Parse(data)
}

// Parse builds a table from YAML. Structural problems are errors; content
// problems are reported by Validate.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTable, err)
	}
	if len(doc.Aliases) == 0 {
		return nil, fmt.Errorf("%w: no aliases", ErrLoadTable)
	}
	return New(doc.Version, doc.Aliases), nil
}

// New builds a table from entries in priority order. When two entries fold
// to the same key the first one is used for lookups.
func New(version int, entries []Entry) *Table {
	t := &Table{
		version: version,
		entries: make([]Entry, len(entries)),
		keys:    make([]string, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)
	for i, e := range t.entries {
		k := fold.String(e.Alias)
		t.keys[i] = k
		if _, dup := t.index[k]; !dup && k != "" {
			t.index[k] = i
		}
	}
	return t
}

// Version is the table's declared data version.
func (t *Table) Version() int { return t.version }

// Len is the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup resolves a whole name, e.g. a query parameter, to its canonical
// country. The name is folded before lookup.
func (t *Table) Lookup(name string) (string, bool) {
	i, ok := t.index[fold.String(name)]
	if !ok {
		return "", false
	}
	return t.entries[i].Country, true
}

// Find returns the longest alias occurring as a whole word in folded text.
// Among aliases of equal length the earlier entry wins.
func (t *Table) Find(folded string) (Match, bool) {
	best, found := Match{}, false
	for i, k := range t.keys {
		if k == "" || len(k) <= len(best.Alias) {
			continue
		}
		if off := fold.IndexWord(folded, k); off >= 0 {
			best = Match{Alias: k, Country: t.entries[i].Country, Offset: off}
			found = true
		}
	}
	return best, found
}

// Validate reports entries with an empty alias or country and aliases that
// fold to the same key while naming different countries. All problems are
// returned together.
func (t *Table) Validate() error {
	var result *multierror.Error
	first := make(map[string]int, len(t.entries))
	for i, e := range t.entries {
		if strings.TrimSpace(e.Alias) == "" || strings.TrimSpace(e.Country) == "" {
			result = multierror.Append(result, fmt.Errorf("%w: entry %d (%q -> %q)", ErrEmptyEntry, i, e.Alias, e.Country))
			continue
		}
		k := t.keys[i]
		if j, ok := first[k]; ok {
			if t.entries[j].Country != e.Country {
				result = multierror.Append(result, fmt.Errorf("%w: %q (%s) and %q (%s) fold to %q",
					ErrCollision, t.entries[j].Alias, t.entries[j].Country, e.Alias, e.Country, k))
			}
			continue
		}
		first[k] = i
	}
	return result.ErrorOrNil()
}
