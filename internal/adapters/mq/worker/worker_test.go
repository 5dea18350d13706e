package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/medals/internal/adapters/mq/queue"
	worker "github.com/okian/medals/internal/adapters/mq/worker"
	model "github.com/okian/medals/internal/domain/model"
	logging "github.com/okian/medals/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch chan queue.Request
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan queue.Request, 10)}
}

func (mq *mockQueue) Enqueue(_ context.Context, r queue.Request) bool {
	select {
	case mq.ch <- r:
		return true
	default:
		return false
	}
}

func (mq *mockQueue) Dequeue(_ context.Context) <-chan queue.Request {
	return mq.ch
}

type mockReloader struct {
	mu      sync.Mutex
	reasons []string
	err     error
}

func (m *mockReloader) Reload(_ context.Context, req model.ReloadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reasons = append(m.reasons, req.Reason)
	return m.err
}

func (m *mockReloader) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reasons...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestReloadWorker(t *testing.T) {
	convey.Convey("Given a reload worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		reloader := &mockReloader{}

		convey.Convey("When created with options", func() {
			w := worker.NewReloadWorker(q, reloader, worker.WithName("test-worker"), worker.WithLogger(logging.Nop()))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a request is queued", func() {
			w := worker.NewReloadWorker(q, reloader)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			q.Enqueue(ctx, model.ReloadRequest{Reason: "api", RequestedAt: time.Now()})

			convey.Convey("Then the reloader should run with its reason", func() {
				convey.So(waitFor(func() bool { return len(reloader.seen()) == 1 }), convey.ShouldBeTrue)
				convey.So(reloader.seen()[0], convey.ShouldEqual, "api")
			})

			convey.Convey("And shutdown should complete", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the reloader fails", func() {
			reloader.err = errors.New("disk gone")
			w := worker.NewReloadWorker(q, reloader)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			q.Enqueue(ctx, model.ReloadRequest{Reason: "first"})
			q.Enqueue(ctx, model.ReloadRequest{Reason: "second"})

			convey.Convey("Then the loop should keep serving requests", func() {
				convey.So(waitFor(func() bool { return len(reloader.seen()) == 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an interval is configured", func() {
			w := worker.NewReloadWorker(q, reloader, worker.WithInterval(10*time.Millisecond))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("Then periodic reloads should be scheduled", func() {
				convey.So(waitFor(func() bool { return len(reloader.seen()) >= 2 }), convey.ShouldBeTrue)
				convey.So(reloader.seen()[0], convey.ShouldEqual, worker.ReasonPeriodic)
			})
		})

		convey.Convey("When the context is canceled", func() {
			w := worker.NewReloadWorker(q, reloader)
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then shutdown should return promptly", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestReloadWorkerWithQueue(t *testing.T) {
	convey.Convey("Given the in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		reloader := &mockReloader{}
		w := worker.NewReloadWorker(q, reloader, worker.WithLogger(logging.Nop()))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When requests arrive", func() {
			convey.So(q.Enqueue(ctx, model.ReloadRequest{Reason: "a"}), convey.ShouldBeTrue)

			convey.Convey("Then each one is reloaded", func() {
				convey.So(waitFor(func() bool { return len(reloader.seen()) == 1 }), convey.ShouldBeTrue)
			})
		})
	})
}
