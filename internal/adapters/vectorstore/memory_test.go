package vectorstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/medals/internal/adapters/vectorstore"
	"github.com/okian/medals/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store with a few documents", t, func() {
		s := vectorstore.NewMemoryStore()
		err := s.Upsert(ctx,
			[]string{
				"Kenia domina el maratón olímpico",
				"Jamaica gana los 100 metros lisos",
				"El maratón de Tokio se corrió en Sapporo",
			},
			[]string{"kenya", "jamaica", "tokyo"},
			nil,
		)
		So(err, ShouldBeNil)

		Convey("When querying a shared term", func() {
			hits, err := s.Query(ctx, "¿Quién ganó el MARATÓN?", 10)

			Convey("Then only matching documents should be returned, best first", func() {
				So(err, ShouldBeNil)
				So(hits, ShouldHaveLength, 2)
				So(hits[0].Score, ShouldBeGreaterThanOrEqualTo, hits[1].Score)
				for _, h := range hits {
					So(h.ID, ShouldBeIn, []string{"kenya", "tokyo"})
				}
			})
		})

		Convey("When k is smaller than the hits", func() {
			hits, _ := s.Query(ctx, "maraton jamaica", 1)
			So(hits, ShouldHaveLength, 1)
		})

		Convey("When the query has only stopwords", func() {
			hits, err := s.Query(ctx, "de la y en", 5)
			So(err, ShouldBeNil)
			So(hits, ShouldBeEmpty)
		})

		Convey("When a document is replaced or deleted", func() {
			So(s.Upsert(ctx, []string{"Jamaica gana el relevo"}, []string{"jamaica"}, nil), ShouldBeNil)
			So(s.Len(), ShouldEqual, 3)
			hits, _ := s.Query(ctx, "relevo", 5)
			So(hits, ShouldHaveLength, 1)

			s.Delete(ctx, []string{"jamaica"})
			So(s.Len(), ShouldEqual, 2)
			s.Reset()
			So(s.Len(), ShouldEqual, 0)
		})

		Convey("When ids are missing", func() {
			So(s.Upsert(ctx, []string{"sin identificador"}, []string{""}, nil), ShouldBeNil)
			hits, _ := s.Query(ctx, "identificador", 1)
			_, err := uuid.Parse(hits[0].ID)
			So(err, ShouldBeNil)
		})

		Convey("When lengths differ", func() {
			err := s.Upsert(ctx, []string{"a", "b"}, []string{"only-one"}, nil)
			So(errors.Is(err, vectorstore.ErrLengthMismatch), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Query(cctx, "maraton", 1)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestIndexRecords(t *testing.T) {
	ctx := context.Background()

	Convey("Given medal records indexed into a store", t, func() {
		records := []model.MedalRecord{
			{Nation: "Kenya", Year: 2016, Gold: 6, Silver: 6, Bronze: 1, Total: 13, Rank: 15},
			{Nation: "Kenya", Year: 2020, Gold: 4, Silver: 4, Bronze: 2, Total: 10, Rank: 19},
			{Nation: "Jamaica", Year: 2016, Gold: 6, Silver: 3, Bronze: 2, Total: 11, Rank: 16},
		}
		s := vectorstore.NewMemoryStore()
		So(vectorstore.IndexRecords(ctx, s, records), ShouldBeNil)

		Convey("Then ids should be deterministic and re-indexing idempotent", func() {
			So(vectorstore.RecordID(records[0]), ShouldEqual, vectorstore.RecordID(model.MedalRecord{Nation: "kenya", Year: 2016}))
			So(vectorstore.RecordID(records[0]), ShouldNotEqual, vectorstore.RecordID(records[1]))
			So(vectorstore.IndexRecords(ctx, s, records), ShouldBeNil)
			So(s.Len(), ShouldEqual, 3)
		})

		Convey("Then a filtered query should respect the metadata", func() {
			hits, err := s.Query(ctx, "medallas de Kenia Kenya", 5, vectorstore.Where(vectorstore.MetaYear, "2020"))
			So(err, ShouldBeNil)
			So(hits, ShouldHaveLength, 1)
			So(hits[0].Metadata[vectorstore.MetaNation], ShouldEqual, "Kenya")
			So(hits[0].Text, ShouldContainSubstring, "2020")
		})

		Convey("Then the sentence should carry every count", func() {
			So(vectorstore.RecordText(records[2]), ShouldEqual,
				"El país Jamaica en los Juegos Olímpicos de 2016 ganó 6 medallas de oro, 3 de plata, y 2 de bronce, sumando un total de 11 medallas. Quedó en el puesto 16 del medallero.")
		})
	})
}
