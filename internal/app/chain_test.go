package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/medals/internal/adapters/repository"
	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

type stubStrategy struct {
	name    string
	outcome query.Outcome
	err     error
	called  int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Answer(_ context.Context, _ string, _ *repository.Snapshot) (service.Reply, error) {
	s.called++
	if s.err != nil {
		return service.Reply{}, s.err
	}
	return service.Reply{Result: query.Result{Outcome: s.outcome, Text: s.name}, Source: s.name}, nil
}

func TestChain(t *testing.T) {
	Convey("Given a chain of three strategies", t, func() {
		snap := &repository.Snapshot{}
		first := &stubStrategy{name: "first"}
		second := &stubStrategy{name: "second", outcome: query.OutcomeAnswer}
		third := &stubStrategy{name: "third", outcome: query.OutcomeAnswer}
		chain := service.NewChain(nil, first, second, third)

		So(chain.Names(), ShouldResemble, []string{"first", "second", "third"})

		Convey("When the first strategy returns NoData", func() {
			first.outcome = query.OutcomeNoData
			reply := chain.Answer(context.Background(), "q", snap)

			Convey("Then no later strategy should run", func() {
				So(reply.Source, ShouldEqual, "first")
				So(reply.Outcome, ShouldEqual, query.OutcomeNoData)
				So(second.called, ShouldEqual, 0)
				So(third.called, ShouldEqual, 0)
			})
		})

		Convey("When the first strategy is unresolved", func() {
			first.outcome = query.OutcomeUnresolved
			reply := chain.Answer(context.Background(), "q", snap)

			Convey("Then the next strategy should answer", func() {
				So(reply.Source, ShouldEqual, "second")
				So(first.called, ShouldEqual, 1)
				So(third.called, ShouldEqual, 0)
			})
		})

		Convey("When a strategy fails", func() {
			first.outcome = query.OutcomeUnresolved
			second.err = errors.New("rate limited")
			reply := chain.Answer(context.Background(), "q", snap)

			Convey("Then the chain should move on", func() {
				So(reply.Source, ShouldEqual, "third")
			})
		})

		Convey("When every strategy gives up", func() {
			first.outcome = query.OutcomeUnresolved
			second.outcome = query.OutcomeUnresolved
			third.err = errors.New("down")
			reply := chain.Answer(context.Background(), "q", snap)

			Convey("Then the first unresolved reply should be returned", func() {
				So(reply.Source, ShouldEqual, "first")
				So(reply.Outcome, ShouldEqual, query.OutcomeUnresolved)
				So(reply.Text, ShouldNotEqual, "first")
				So(reply.Text, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given an empty chain", t, func() {
		reply := service.NewChain(nil).Answer(context.Background(), "q", &repository.Snapshot{})
		So(reply.Outcome, ShouldEqual, query.OutcomeUnresolved)
	})
}
