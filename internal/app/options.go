package service

import (
	"time"

	"github.com/okian/medals/internal/adapters/llm"
	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath sets the medal table CSV loaded at start and on reload.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithTopK sets how many documents the retrieval strategy fetches.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithMaxRankingLimit caps Ranking's limit.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankingLimit = n
		}
	}
}

// WithReloadQueueSize sets the maximum number of pending reload requests.
func WithReloadQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithReloadInterval enables periodic reloads.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reloadInterval = d
		}
	}
}

// WithGenerator enables the LLM-backed steps of the chain.
func WithGenerator(g llm.Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithAliases replaces the embedded country alias table.
func WithAliases(t *alias.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.aliases = t
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
