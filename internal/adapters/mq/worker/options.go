package worker

import (
	"time"

	"github.com/okian/medals/pkg/logger"
)

// Option applies a configuration option to the ReloadWorker.
type Option func(*ReloadWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ReloadWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *ReloadWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithInterval schedules a periodic reload. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(w *ReloadWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(w *ReloadWorker) {
		if now != nil {
			w.now = now
		}
	}
}
