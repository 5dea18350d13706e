// Package queue holds pending dataset reload requests.
//
// The queue is small and bounded. Requests carrying the same reason while
// an earlier one is still pending are coalesced into it.
package queue

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/medals/internal/domain/dedupe"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/metrics"
)

const defaultQueueCapacity = 8

// Request is the payload flowing through the queue.
type Request = model.ReloadRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request. It returns false when the queue is closed or
	// full. A request coalesced into a pending one counts as accepted.
	Enqueue(ctx context.Context, r Request) bool

	// Dequeue returns a channel that receives requests as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Request

	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan Request
	capacity int
	pending  dedupe.Deduper

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.requests = make(chan Request, q.capacity)
	q.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(q.capacity))

	metrics.UpdateReloadQueue(0, q.capacity)
	return q
}

func reasonKey(r Request) string {
	return strings.ToLower(strings.TrimSpace(r.Reason))
}

// Enqueue adds a request to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		metrics.RecordReloadRejected()
		return false
	}

	key := reasonKey(r)
	if q.pending.SeenAndRecord(ctx, key) {
		return true
	}

	select {
	case q.requests <- r:
		metrics.UpdateReloadQueue(len(q.requests), q.capacity)
		return true
	default:
		q.pending.Unrecord(ctx, key)
		metrics.RecordReloadRejected()
		return false
	}
}

// Dequeue returns a channel that receives queued requests.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-q.requests:
				if !ok {
					return
				}
				// once taken off the buffer a new request with the same reason
				// must queue again
				q.pending.Unrecord(ctx, reasonKey(r))
				metrics.UpdateReloadQueue(len(q.requests), q.capacity)
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the number of buffered requests.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.requests)
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting requests and closes the dequeue channel once drained.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
