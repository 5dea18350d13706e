package query_test

import (
	"testing"

	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandings(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		records := fixture()
		before := append([]model.MedalRecord(nil), records...)

		Convey("When listing 2016 by gold", func() {
			rows := query.Standings(records, 2016, model.MedalGold, 3)

			Convey("Then rows should be ordered by count and limited", func() {
				So(rows, ShouldHaveLength, 3)
				So(rows[0].Nation, ShouldEqual, "United States")
				So(rows[1].Nation, ShouldEqual, "Great Britain")
				So(rows[2].Nation, ShouldEqual, "China")
				So(records, ShouldResemble, before)
			})
		})

		Convey("When listing 2016 by bronze without a limit", func() {
			rows := query.Standings(records, 2016, model.MedalBronze, 0)

			Convey("Then all rows should be returned with rank breaking ties", func() {
				So(rows, ShouldHaveLength, 7)
				So(rows[0].Nation, ShouldEqual, "United States")
				So(rows[1].Nation, ShouldEqual, "China")
				So(rows[4].Nation, ShouldEqual, "South Korea")
				// Mexico and North Korea both have 2.
				So(rows[5].Nation, ShouldEqual, "North Korea")
				So(rows[6].Nation, ShouldEqual, "Mexico")
			})
		})

		Convey("When the year is absent", func() {
			So(query.Standings(records, 1999, model.MedalTotal, 5), ShouldBeEmpty)
		})

		Convey("When listing by rank", func() {
			rows := query.ByRank(records, 2012)
			So(rows[0].Nation, ShouldEqual, "Jamaica")
			So(rows[1].Nation, ShouldEqual, "Kenya")
		})

		Convey("When listing years", func() {
			So(query.Years(records), ShouldResemble, []int{2020, 2016, 2012})
			So(query.LatestYear(records), ShouldEqual, 2020)
			So(query.LatestYear(nil), ShouldEqual, 0)
			So(query.Years(nil), ShouldBeEmpty)
		})
	})
}
