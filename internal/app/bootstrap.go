package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/medals/internal/adapters/llm"
	"github.com/okian/medals/internal/config"
	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/pkg/logger"
)

const llmRetryDelay = time.Second

// NewFromConfig builds a Service from process configuration. The LLM steps
// are enabled only when an API key is configured.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	opts := []Option{
		WithLogger(log),
		WithDatasetPath(cfg.DatasetPath),
		WithTopK(cfg.RetrievalTopK),
		WithMaxRankingLimit(cfg.MaxRankingLimit),
		WithReloadQueueSize(cfg.ReloadQueueSize),
		WithReloadInterval(time.Duration(cfg.ReloadIntervalSec) * time.Second),
	}

	if cfg.AliasPath != "" {
		t, err := alias.LoadFile(cfg.AliasPath)
		if err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("alias table %s: %w", cfg.AliasPath, err)
		}
		opts = append(opts, WithAliases(t))
	}

	gen, err := llm.NewOpenAI(cfg.LLM.APIKey,
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithModel(cfg.LLM.Model),
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithTimeout(time.Duration(cfg.LLM.TimeoutMS)*time.Millisecond),
		llm.WithRetries(cfg.LLM.MaxRetries, llmRetryDelay),
		llm.WithLogger(log.Named("llm")),
	)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
	case err != nil:
		return nil, err
	default:
		opts = append(opts, WithGenerator(gen))
	}

	return New(opts...), nil
}
