package scraper

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/medals/pkg/logger"
)

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// WithURLFormat sets the article URL; it must contain one %d for the year.
func WithURLFormat(format string) Option {
	return func(s *Scraper) {
		if strings.Count(format, "%d") == 1 {
			s.urlFormat = format
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithRetry sets the attempts per page and the initial backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Scraper) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithLogger sets the scraper's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}
