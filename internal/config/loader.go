package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MEDALS_"
	envConfigFile = "MEDALS_CONFIG"
)

// apiKeyFallbacks are consulted in order when llm.api_key is unset.
var apiKeyFallbacks = []string{"GOOGLE_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY"}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MEDALS_CONFIG is set
//  3. env (prefix MEDALS_, "__" separates nested keys: MEDALS_LLM__MODEL)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.LLM.APIKey == "" {
		for _, name := range apiKeyFallbacks {
			if v := os.Getenv(name); v != "" {
				cfg.LLM.APIKey = v
				break
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetPath) == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case c.RetrievalTopK < 1:
		return fmt.Errorf("%w: retrieval_top_k must be positive", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	case c.ReloadQueueSize < 1:
		return fmt.Errorf("%w: reload_queue_size must be positive", ErrInvalidConfig)
	case c.ReloadIntervalSec < 0:
		return fmt.Errorf("%w: reload_interval_sec must not be negative", ErrInvalidConfig)
	}
	switch c.MCP.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: mcp.transport must be %q or %q, got %q", ErrInvalidConfig, TransportStdio, TransportHTTP, c.MCP.Transport)
	}
	if c.LLM.APIKey != "" && c.LLM.Model == "" {
		return fmt.Errorf("%w: llm.model is required when llm.api_key is set", ErrInvalidConfig)
	}
	return nil
}
