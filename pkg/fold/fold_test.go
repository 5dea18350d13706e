package fold

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestString(t *testing.T) {
	Convey("Given accented and mixed-case input", t, func() {
		Convey("Then folding should drop case and marks", func() {
			So(String("MÉXICO"), ShouldEqual, "mexico")
			So(String("méxico"), ShouldEqual, "mexico")
			So(String("España"), ShouldEqual, "espana")
			So(String("¿Quién  quedó\tTERCERO?"), ShouldEqual, "¿quien quedo tercero?")
			So(String("Côte d'Ivoire"), ShouldEqual, "cote d'ivoire")
		})
	})
}

func TestTokens(t *testing.T) {
	Convey("Given a sentence with punctuation", t, func() {
		So(Tokens("¿Qué país ganó más medallas en 2016?"), ShouldResemble,
			[]string{"que", "pais", "gano", "mas", "medallas", "en", "2016"})
	})
}

func TestWordMatching(t *testing.T) {
	Convey("Given folded text", t, func() {
		text := "por que causa gano usa en 2016, y quien quedo tercero"

		Convey("When matching whole words", func() {
			So(IndexWord(text, "usa"), ShouldEqual, 19)
			So(IndexWord("la causa", "usa"), ShouldEqual, -1)
			So(IndexWord(text, "tercer"), ShouldEqual, -1)
			So(IndexWord("ee. uu. gano", "ee. uu."), ShouldEqual, 0)
			So(IndexWord(text, ""), ShouldEqual, -1)
		})

		Convey("When matching prefixes", func() {
			So(IndexPrefix(text, "tercer"), ShouldBeGreaterThan, 0)
			So(IndexPrefix("autopista", "top"), ShouldEqual, -1)
		})

		Convey("When matching patterns", func() {
			So(Match(text, "tercer*"), ShouldBeTrue)
			So(Match(text, "tercer"), ShouldBeFalse)
			So(Match(text, "quien"), ShouldBeTrue)
			So(Match(text, "mas medallas"), ShouldBeFalse)
		})
	})
}
