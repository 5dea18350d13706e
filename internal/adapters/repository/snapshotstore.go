package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/metrics"
)

// SnapshotStore swaps immutable snapshots through an atomic pointer, so a
// resolve that already holds a snapshot keeps a consistent view while a
// reload publishes the next one.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes publishers
	version uint64
	now     func() time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		metrics.RecordErrorByType("no_snapshot", "low")
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (s *SnapshotStore) Publish(_ context.Context, records []model.MedalRecord, source string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	snap := &Snapshot{
		Records:  slices.Clone(records),
		Version:  s.version,
		Source:   source,
		LoadedAt: s.now(),
	}

	years := make(map[int]struct{})
	nations := make(map[string]struct{})
	for _, r := range snap.Records {
		if _, ok := years[r.Year]; !ok {
			years[r.Year] = struct{}{}
			snap.Years = append(snap.Years, r.Year)
		}
		if _, ok := nations[r.Nation]; !ok {
			nations[r.Nation] = struct{}{}
			snap.Nations = append(snap.Nations, r.Nation)
		}
	}
	slices.Sort(snap.Years)
	slices.Reverse(snap.Years)
	slices.Sort(snap.Nations)

	s.current.Store(snap)
	metrics.UpdateDataset(len(snap.Records), len(snap.Years), snap.Version)
	return snap
}

func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Records)
}
