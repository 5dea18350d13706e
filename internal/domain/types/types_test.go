package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/medals/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandingEntry(t *testing.T) {
	Convey("Given a standing entry", t, func() {
		entry := types.StandingEntry{
			Position: 1,
			Count:    46,
			MedalEntry: types.MedalEntry{
				Rank: 1, Nation: "United States", Year: 2016,
				Gold: 46, Silver: 37, Bronze: 38, Total: 121,
			},
		}

		Convey("When encoding it as JSON", func() {
			b, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			var flat map[string]any
			So(json.Unmarshal(b, &flat), ShouldBeNil)

			Convey("Then the embedded record should be flattened", func() {
				So(flat["position"], ShouldEqual, 1)
				So(flat["count"], ShouldEqual, 46)
				So(flat["nation"], ShouldEqual, "United States")
				So(flat["total"], ShouldEqual, 121)
				So(flat, ShouldNotContainKey, "MedalEntry")
			})
		})
	})
}
