package llm

import (
	"net/http"
	"time"

	"github.com/okian/medals/pkg/logger"
)

type settings struct {
	baseURL     string
	model       string
	temperature float64
	timeout     time.Duration
	attempts    uint
	delay       time.Duration
	httpClient  *http.Client
	log         logger.Logger
}

// Option configures an OpenAIGenerator.
type Option func(*settings)

// WithBaseURL points the client at an OpenAI-compatible endpoint, e.g.
// Gemini's or Groq's.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(s *settings) {
		if m != "" {
			s.model = m
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *settings) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithTimeout bounds each completion attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetries sets how many times a failed completion is retried and the
// initial backoff.
func WithRetries(retries int, delay time.Duration) Option {
	return func(s *settings) {
		if retries >= 0 {
			s.attempts = uint(retries) + 1
		}
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithLogger sets the generator's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.log = l }
}
