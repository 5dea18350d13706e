package alias_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/pkg/fold"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the embedded alias table", t, func() {
		table := alias.Default()

		Convey("Then it should parse and validate cleanly", func() {
			So(table.Len(), ShouldBeGreaterThan, 100)
			So(table.Version(), ShouldBeGreaterThan, 0)
			So(table.Validate(), ShouldBeNil)
		})

		Convey("Then lookups should ignore case and accents", func() {
			for _, name := range []string{"mexico", "méxico", "MÉXICO", "  México "} {
				country, ok := table.Lookup(name)
				So(ok, ShouldBeTrue)
				So(country, ShouldEqual, "Mexico")
			}
			_, ok := table.Lookup("ruritania")
			So(ok, ShouldBeFalse)
		})

		Convey("Then every alias should resolve through Find in a sentence", func() {
			for _, e := range table.Entries() {
				m, ok := table.Find(fold.String("datos de " + e.Alias + " en 2016"))
				So(ok, ShouldBeTrue)
				// A longer alias may legitimately contain this one, never the reverse.
				So(len(m.Alias), ShouldBeGreaterThanOrEqualTo, len(fold.String(e.Alias)))
			}
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given the embedded alias table", t, func() {
		table := alias.Default()

		Convey("When the question names a longer and a shorter alias", func() {
			m, ok := table.Find(fold.String("medallas de Corea del Norte en 2012"))

			Convey("Then the longest alias should win", func() {
				So(ok, ShouldBeTrue)
				So(m.Country, ShouldEqual, "North Korea")
				So(m.Alias, ShouldEqual, "corea del norte")
			})
		})

		Convey("When the question says corea del sur", func() {
			m, ok := table.Find(fold.String("¿cuántos oros ganó Corea del Sur?"))
			So(ok, ShouldBeTrue)
			So(m.Country, ShouldEqual, "South Korea")
			So(m.Alias, ShouldEqual, "corea del sur")
		})

		Convey("When an alias only appears inside another word", func() {
			_, ok := table.Find(fold.String("por qué causa tantas preguntas"))

			Convey("Then nothing should match", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a table with equal-length aliases", t, func() {
		table := alias.New(1, []alias.Entry{
			{Alias: "alfa", Country: "First"},
			{Alias: "beta", Country: "Second"},
		})

		Convey("Then the earlier entry should win", func() {
			m, ok := table.Find("beta y alfa")
			So(ok, ShouldBeTrue)
			So(m.Country, ShouldEqual, "First")
			So(m.Offset, ShouldEqual, 7)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a table with problems", t, func() {
		table := alias.New(1, []alias.Entry{
			{Alias: "méxico", Country: "Mexico"},
			{Alias: "MEXICO", Country: "Mexico"},
			{Alias: "Mexico", Country: "New Mexico"},
			{Alias: "", Country: "Nowhere"},
			{Alias: "atlantis", Country: " "},
		})

		err := table.Validate()

		Convey("Then every problem should be reported", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, alias.ErrCollision), ShouldBeTrue)
			So(errors.Is(err, alias.ErrEmptyEntry), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "3 errors occurred")
		})

		Convey("Then lookups should use the first entry for a key", func() {
			country, ok := table.Lookup("mexico")
			So(ok, ShouldBeTrue)
			So(country, ShouldEqual, "Mexico")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given alias YAML documents", t, func() {
		Convey("When the document is valid", func() {
			table, err := alias.Parse([]byte("version: 7\naliases:\n  - {alias: \"ruritania\", country: \"Ruritania\"}\n"))
			So(err, ShouldBeNil)
			So(table.Version(), ShouldEqual, 7)
			So(table.Len(), ShouldEqual, 1)
		})

		Convey("When the document has no aliases", func() {
			_, err := alias.Parse([]byte("version: 1\n"))
			So(errors.Is(err, alias.ErrLoadTable), ShouldBeTrue)
		})

		Convey("When the document is not YAML", func() {
			_, err := alias.Parse([]byte("aliases: [\n"))
			So(errors.Is(err, alias.ErrLoadTable), ShouldBeTrue)
		})

		Convey("When loading from a file", func() {
			path := filepath.Join(t.TempDir(), "aliases.yaml")
			So(os.WriteFile(path, []byte("version: 2\naliases:\n  - {alias: \"eeuu\", country: \"USA\"}\n"), 0o600), ShouldBeNil)

			table, err := alias.LoadFile(path)
			So(err, ShouldBeNil)
			country, ok := table.Lookup("EEUU")
			So(ok, ShouldBeTrue)
			So(country, ShouldEqual, "USA")

			_, err = alias.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
			So(errors.Is(err, alias.ErrLoadTable), ShouldBeTrue)
		})
	})
}
