// Package service wires the dataset, the answer chain and the reload loop
// behind the operations the HTTP API, the MCP server and the CLI expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/medals/internal/adapters/llm"
	"github.com/okian/medals/internal/adapters/loader"
	reloadqueue "github.com/okian/medals/internal/adapters/mq/queue"
	reloadworker "github.com/okian/medals/internal/adapters/mq/worker"
	"github.com/okian/medals/internal/adapters/repository"
	"github.com/okian/medals/internal/adapters/vectorstore"
	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/query"
	"github.com/okian/medals/internal/domain/types"
	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// reloadAdapter adapts Service.Reload to worker.Reloader.
type reloadAdapter struct {
	svc *Service
}

func (a *reloadAdapter) Reload(ctx context.Context, _ model.ReloadRequest) error {
	return a.svc.Reload(ctx)
}

// Service implements the medal question answering operations.
type Service struct {
	mu       sync.RWMutex
	reloadMu sync.Mutex

	// Core components
	store    *repository.SnapshotStore
	vectors  atomic.Pointer[vectorstore.MemoryStore]
	resolver *query.Resolver
	chain    *Chain
	loader   *loader.Loader
	queue    *reloadqueue.InMemoryQueue
	worker   *reloadworker.ReloadWorker

	// Configuration
	datasetPath     string
	topK            int
	maxRankingLimit int
	queueSize       int
	reloadInterval  time.Duration
	generator       llm.Generator
	aliases         *alias.Table

	// State
	started      bool
	running      atomic.Bool
	cancelWorker context.CancelFunc

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath:     "data/olympic_medals_2000_2024.csv",
		topK:            10,
		maxRankingLimit: 100,
		queueSize:       8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset, builds the answer chain and starts the reload
// worker. A missing dataset file starts the service with an empty snapshot;
// a file with a broken header is fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.aliases == nil {
		s.aliases = alias.Default()
	}

	s.logger.Info(ctx, "starting medals service...")

	s.store = repository.NewSnapshotStore()
	s.loader = loader.New(loader.WithLogger(s.logger.Named("loader")))
	s.resolver = query.New(query.WithAliases(s.aliases), query.WithLogger(s.logger.Named("resolver")))

	if err := s.reload(ctx, true); err != nil {
		return err
	}

	strategies := []Strategy{
		&resolverStrategy{resolver: s.resolver},
		&retrievalStrategy{
			resolver:  s.resolver,
			store:     s.currentVectors,
			generator: s.generator,
			topK:      s.topK,
		},
	}
	if s.generator != nil {
		strategies = append(strategies, &llmStrategy{generator: s.generator})
	}
	s.chain = NewChain(s.logger.Named("chain"), strategies...)

	s.queue = reloadqueue.NewInMemoryQueue(reloadqueue.WithCapacity(s.queueSize))
	s.worker = reloadworker.NewReloadWorker(s.queue, &reloadAdapter{svc: s},
		reloadworker.WithLogger(s.logger.Named("reload-worker")),
		reloadworker.WithInterval(s.reloadInterval),
	)
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelWorker = cancel
	go s.worker.Run(workerCtx)

	s.started = true
	s.running.Store(true)
	s.logger.Info(ctx, "medals service started",
		logger.String("dataset", s.datasetPath),
		logger.Int("records", s.store.Count(ctx)),
		logger.Any("strategies", s.chain.Names()),
		logger.Int("reloadQueueSize", s.queueSize),
	)
	return nil
}

// Stop shuts down the reload worker.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping medals service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "reload worker did not stop cleanly", logger.Error(err))
	}
	s.cancelWorker()
	_ = s.queue.Close()

	s.started = false
	s.running.Store(false)
	s.logger.Info(ctx, "medals service stopped")
}

// Reload re-reads the dataset file, publishes a new snapshot and rebuilds
// the semantic store. On failure the current snapshot stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if !s.running.Load() {
		return ErrNotStarted
	}
	return s.reload(ctx, false)
}

func (s *Service) reload(ctx context.Context, allowMissing bool) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	records, rep, err := s.loader.LoadFile(ctx, s.datasetPath)
	switch {
	case err == nil:
	case allowMissing && errors.Is(err, os.ErrNotExist):
		s.logger.Warn(ctx, "dataset file not found, starting empty",
			logger.String("path", s.datasetPath))
		records = nil
	default:
		return fmt.Errorf("load dataset: %w", err)
	}

	vs := vectorstore.NewMemoryStore()
	if err := vectorstore.IndexRecords(ctx, vs, records); err != nil {
		return fmt.Errorf("index dataset: %w", err)
	}

	snap := s.store.Publish(ctx, records, s.datasetPath)
	s.vectors.Store(vs)
	metrics.UpdateIndexedDocuments(vs.Len())

	s.logger.Info(ctx, "dataset published",
		logger.Int("version", int(snap.Version)),
		logger.Int("records", len(snap.Records)),
		logger.Int("years", len(snap.Years)),
		logger.Int("skipped", rep.Skipped+rep.Duplicates),
	)
	return nil
}

func (s *Service) currentVectors() vectorstore.Store {
	vs := s.vectors.Load()
	if vs == nil {
		return nil
	}
	return vs
}

// Snapshot returns the dataset currently served.
func (s *Service) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.Current(ctx)
}

// Ask answers a free-form question through the strategy chain.
func (s *Service) Ask(ctx context.Context, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, ErrEmptyQuestion
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Reply{}, err
	}

	reply := s.chain.Answer(ctx, question, snap)
	s.logger.Debug(ctx, "question answered",
		logger.String("source", reply.Source),
		logger.String("outcome", string(reply.Outcome)),
	)
	return reply, nil
}

// Country returns the medals of country in year. year 0 selects the most
// recent year of the dataset.
func (s *Service) Country(ctx context.Context, country string, year int) (Reply, error) {
	if strings.TrimSpace(country) == "" {
		return Reply{}, ErrEmptyQuestion
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Reply{}, err
	}
	res := s.resolver.Lookup(country, year, snap.Records)
	metrics.RecordQuestion(string(model.IntentLookup), string(res.Outcome))
	return Reply{Result: res, Source: SourceResolver}, nil
}

// Ranking returns the standings of year ordered by medal. year 0 selects
// the most recent year; limit is capped at the configured maximum.
func (s *Service) Ranking(ctx context.Context, year int, medal model.MedalType, limit int) ([]types.StandingEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if limit > s.maxRankingLimit {
		limit = s.maxRankingLimit
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		if len(snap.Years) == 0 {
			return nil, ErrUnknownYear
		}
		year = snap.Years[0]
	}

	rows := query.Standings(snap.Records, year, medal, limit)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	out := make([]types.StandingEntry, len(rows))
	for i, r := range rows {
		out[i] = types.StandingEntry{
			Position:   i + 1,
			Count:      medal.Count(r),
			MedalEntry: types.NewMedalEntry(r),
		}
	}
	return out, nil
}

// RequestReload queues an asynchronous dataset reload. It returns false
// when the queue is full or the service is not running.
func (s *Service) RequestReload(ctx context.Context, reason string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false
	}
	return s.queue.Enqueue(ctx, model.ReloadRequest{Reason: reason, RequestedAt: time.Now()})
}

// Aliases returns the country alias table in use.
func (s *Service) Aliases() *alias.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.aliases == nil {
		return alias.Default()
	}
	return s.aliases
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"datasetPath":     s.datasetPath,
		"retrievalTopK":   s.topK,
		"reloadQueueSize": s.queueSize,
		"llmEnabled":      s.generator != nil,
	}

	if s.started {
		if snap, err := s.store.Current(ctx); err == nil {
			stats["records"] = len(snap.Records)
			stats["years"] = snap.Years
			stats["nations"] = len(snap.Nations)
			stats["datasetVersion"] = snap.Version
			stats["loadedAt"] = snap.LoadedAt
		}
		if vs := s.vectors.Load(); vs != nil {
			stats["indexedDocuments"] = vs.Len()
		}
		stats["reloadQueueLength"] = s.queue.Len(ctx)
		stats["strategies"] = s.chain.Names()
		stats["aliasVersion"] = s.aliases.Version()
		metrics.UpdateReloadQueue(s.queue.Len(ctx), s.queue.Capacity())
	}
	return stats
}
