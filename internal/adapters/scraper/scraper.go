// Package scraper downloads Summer Olympics medal tables from Wikipedia.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

const (
	defaultURLFormat = "https://en.wikipedia.org/wiki/%d_Summer_Olympics_medal_table"
	defaultUserAgent = "medals-scraper/1.0"
	maxBodyBytes     = 8 << 20
)

// DefaultYears are the Games covered by the shipped dataset.
var DefaultYears = []int{2000, 2004, 2008, 2012, 2016, 2020, 2024}

// Scraper fetches and parses medal tables.
type Scraper struct {
	client    *http.Client
	urlFormat string
	userAgent string
	attempts  uint
	delay     time.Duration
	log       logger.Logger
}

// New creates a scraper with a 60s HTTP timeout and three attempts per page.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:    &http.Client{Timeout: 60 * time.Second},
		urlFormat: defaultURLFormat,
		userAgent: defaultUserAgent,
		attempts:  3,
		delay:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// URL returns the article address for year.
func (s *Scraper) URL(year int) string {
	return fmt.Sprintf(s.urlFormat, year)
}

// ScrapeYear downloads and parses one medal table. Transport errors and
// 5xx/429 responses are retried with exponential backoff; other statuses
// and parse failures are not.
func (s *Scraper) ScrapeYear(ctx context.Context, year int) ([]model.MedalRecord, error) {
	url := s.URL(year)
	records, err := retry.DoWithData(
		func() ([]model.MedalRecord, error) { return s.fetch(ctx, url, year) },
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warn(ctx, "retrying medal table download",
				logger.Int("year", year), logger.Int("attempt", int(n)+1), logger.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape %d: %w", year, err)
	}
	s.log.Info(ctx, "medal table scraped", logger.Int("year", year), logger.Int("rows", len(records)))
	return records, nil
}

func (s *Scraper) fetch(ctx context.Context, url string, year int) ([]model.MedalRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordScrapeRequest("error")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordScrapeRequest(strconv.Itoa(resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Unrecoverable(&StatusError{Code: resp.StatusCode, URL: url})
	}

	records, err := ParseMedalTable(io.LimitReader(resp.Body, maxBodyBytes), year)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	return records, nil
}

// ScrapeAll scrapes years in order. Years that fail are skipped; their
// errors are combined and returned with the records that did load.
func (s *Scraper) ScrapeAll(ctx context.Context, years []int) ([]model.MedalRecord, error) {
	var (
		all  []model.MedalRecord
		errs *multierror.Error
	)
	for _, y := range years {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		recs, err := s.ScrapeYear(ctx, y)
		if err != nil {
			s.log.Error(ctx, "medal table skipped", logger.Int("year", y), logger.Error(err))
			errs = multierror.Append(errs, err)
			continue
		}
		all = append(all, recs...)
	}
	return all, errs.ErrorOrNil()
}
