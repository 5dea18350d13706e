// Package repository holds the published medal dataset.
package repository

import (
	"context"
	"time"

	"github.com/okian/medals/internal/domain/model"
)

// Snapshot is an immutable view of the dataset. Readers must not modify
// Records.
type Snapshot struct {
	Records  []model.MedalRecord
	Years    []int    // most recent first
	Nations  []string // sorted, distinct
	Version  uint64   // increases with every publish
	Source   string
	LoadedAt time.Time
}

// Store publishes dataset snapshots to concurrent readers.
type Store interface {
	// Current returns the latest snapshot or ErrNoSnapshot before the
	// first Publish.
	Current(ctx context.Context) (*Snapshot, error)
	// Publish replaces the current snapshot. The records slice is copied.
	Publish(ctx context.Context, records []model.MedalRecord, source string) *Snapshot
	// Count returns the number of records in the current snapshot.
	Count(ctx context.Context) int
}
