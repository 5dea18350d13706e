package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/medals/internal/adapters/loader"
	"github.com/okian/medals/internal/adapters/scraper"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/pkg/logger"
)

const scrapeRetryDelay = 2 * time.Second

var errNothingScraped = errors.New("no medal rows scraped")

func newScrapeCmd(root *rootOptions) *cobra.Command {
	var (
		out   string
		years []int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Download the medal tables and write the dataset CSV",
		Long: `scrape fetches one Wikipedia medal table per year and writes them as a
single CSV. Years that fail are skipped; the command still writes the rows it
got and exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := root.cfg
			log := logger.Named("scrape")

			if out == "" {
				out = cfg.DatasetPath
			}
			if len(years) == 0 {
				years = cfg.Scraper.Years
			}

			s := scraper.New(
				scraper.WithURLFormat(cfg.Scraper.BaseURL),
				scraper.WithUserAgent(cfg.Scraper.UserAgent),
				scraper.WithTimeout(time.Duration(cfg.Scraper.TimeoutMS)*time.Millisecond),
				scraper.WithRetry(uint(max(cfg.Scraper.Attempts, 1)), scrapeRetryDelay),
				scraper.WithLogger(log),
			)
			records, scrapeErr := s.ScrapeAll(ctx, years)
			if len(records) == 0 {
				if scrapeErr != nil {
					return scrapeErr
				}
				return errNothingScraped
			}

			if err := writeDataset(ctx, out, records); err != nil {
				return err
			}
			log.Info(ctx, "dataset written",
				logger.String("path", out),
				logger.Int("records", len(records)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(records), out)
			return scrapeErr
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default dataset_path)")
	cmd.Flags().IntSliceVar(&years, "years", nil, "Olympic years to scrape (default scraper.years)")
	return cmd
}

// writeDataset replaces path atomically so a running service never reloads
// a half-written file.
func writeDataset(ctx context.Context, path string, records []model.MedalRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".medals-*.csv")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := loader.Write(ctx, tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
