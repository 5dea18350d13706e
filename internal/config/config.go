// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load layers an optional YAML file and MEDALS_* environment variables on top.
//   - Errors returned from this package wrap ErrLoadConfig or ErrInvalidConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the medal table CSV produced by the scraper.
	DatasetPath string `koanf:"dataset_path"`
	// AliasPath optionally replaces the embedded country alias table.
	AliasPath string `koanf:"alias_path"`

	// ReloadQueueSize bounds pending dataset reload requests.
	ReloadQueueSize int `koanf:"reload_queue_size"`
	// ReloadIntervalSec triggers a periodic reload; 0 disables it.
	ReloadIntervalSec int `koanf:"reload_interval_sec"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
	// RetrievalTopK is the number of documents fetched from the semantic store.
	RetrievalTopK int `koanf:"retrieval_top_k"`

	LLM     LLMConfig     `koanf:"llm"`
	MCP     MCPConfig     `koanf:"mcp"`
	Scraper ScraperConfig `koanf:"scraper"`
}

// LLMConfig configures the OpenAI-compatible chat completions endpoint.
// An empty APIKey disables the LLM fallback.
type LLMConfig struct {
	BaseURL     string  `koanf:"base_url"`
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	TimeoutMS   int     `koanf:"timeout_ms"`
	MaxRetries  int     `koanf:"max_retries"`
	Temperature float64 `koanf:"temperature"`
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	// Transport is stdio or http (streamable HTTP).
	Transport string `koanf:"transport"`
	Addr      string `koanf:"addr"`
}

// ScraperConfig configures the Wikipedia medal table scraper.
type ScraperConfig struct {
	Years     []int  `koanf:"years"`
	BaseURL   string `koanf:"base_url"`
	UserAgent string `koanf:"user_agent"`
	TimeoutMS int    `koanf:"timeout_ms"`
	Attempts  int    `koanf:"attempts"`
}

// Transports accepted by MCPConfig.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DatasetPath:       "data/olympic_medals_2000_2024.csv",
		ReloadQueueSize:   8,
		ReloadIntervalSec: 0,
		MaxRankingLimit:   100,
		RetrievalTopK:     10,
		LLM: LLMConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:       "gemini-2.5-flash",
			TimeoutMS:   30_000,
			MaxRetries:  2,
			Temperature: 0.2,
		},
		MCP: MCPConfig{
			Transport: TransportStdio,
			Addr:      ":9091",
		},
		Scraper: ScraperConfig{
			Years:     []int{2000, 2004, 2008, 2012, 2016, 2020, 2024},
			BaseURL:   "https://en.wikipedia.org/wiki/%d_Summer_Olympics_medal_table",
			UserAgent: "medals-scraper/1.0 (+https://github.com/okian/medals)",
			TimeoutMS: 60_000,
			Attempts:  3,
		},
	}
}
