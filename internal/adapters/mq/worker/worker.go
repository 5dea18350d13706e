// Package worker runs the background dataset reload loop.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/medals/internal/adapters/mq/queue"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

// ReasonPeriodic is the reason attached to ticker-driven reloads.
const ReasonPeriodic = "periodic"

// Reloader reloads and republishes the dataset.
type Reloader interface {
	Reload(ctx context.Context, req model.ReloadRequest) error
}

// Queue defines how the worker receives and schedules requests.
type Queue interface {
	Enqueue(ctx context.Context, r queue.Request) bool
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Worker processes reload requests one at a time.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the in-flight reload finishes.
	Shutdown(ctx context.Context) error
}

// ReloadWorker implements Worker.
type ReloadWorker struct {
	queue    Queue
	reloader Reloader
	name     string
	interval time.Duration
	now      func() time.Time

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewReloadWorker creates a reload worker.
func NewReloadWorker(q Queue, reloader Reloader, opts ...Option) *ReloadWorker {
	w := &ReloadWorker{
		queue:    q,
		reloader: reloader,
		name:     "reload-worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. With a positive interval a periodic request
// is scheduled on every tick.
func (w *ReloadWorker) Run(ctx context.Context) {
	defer close(w.done)

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case <-tick:
			if !w.queue.Enqueue(ctx, model.ReloadRequest{Reason: ReasonPeriodic, RequestedAt: w.now()}) {
				w.logger.Warn(ctx, "periodic reload rejected")
			}
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "reload failed", logger.String("reason", req.Reason), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the loop to stop and waits for it.
func (w *ReloadWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *ReloadWorker) process(ctx context.Context, req model.ReloadRequest) error {
	start := w.now()
	err := w.reloader.Reload(ctx, req)
	elapsed := float64(w.now().Sub(start).Milliseconds())

	if err != nil {
		metrics.RecordReload("error", elapsed)
		metrics.RecordErrorByType("reload_error", "high")
		return fmt.Errorf("reload %q: %w", req.Reason, err)
	}
	metrics.RecordReload("ok", elapsed)
	w.logger.Info(ctx, "dataset reloaded",
		logger.String("reason", req.Reason),
		logger.Float64("duration_ms", elapsed),
	)
	return nil
}
