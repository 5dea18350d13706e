// Package dedupe tracks keys that were already seen.
//
// The loader uses it to keep the first row of each (nation, year) pair and
// the reload queue uses it to coalesce identical pending requests.
package dedupe

import (
	"container/list"
	"context"
	"strconv"
	"strings"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if it was not. Safe for concurrent use.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a later SeenAndRecord treats it as new.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// RecordKey is the identity of a medal table row.
func RecordKey(nation string, year int) string {
	return strings.ToLower(strings.Join(strings.Fields(nation), " ")) + "|" + strconv.Itoa(year)
}

// inMemoryDeduper keeps keys in a map. In bounded mode (maxSize > 0) the
// insertion order is tracked and the oldest key is evicted at capacity.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front = newest
	maxSize int
}

// NewInMemoryDeduper creates a deduper. Without options it holds at most
// 50000 keys.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50_000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = d.order.PushFront(key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	el := d.order.Back()
	if el == nil {
		return
	}
	d.order.Remove(el)
	delete(d.seen, el.Value.(string))
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
