package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/medals/internal/config"
	"github.com/okian/medals/pkg/logger"
)

// rootOptions carries the persistent flags and the configuration loaded
// before any subcommand runs.
type rootOptions struct {
	logLevel  string
	logFormat string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "medalsctl",
		Short: "Manage and query the Summer Olympics medal dataset",
		Long: `medalsctl works on the medal table CSV used by the medals service.

Configuration is read the same way as the service: defaults, then the YAML
file named by MEDALS_CONFIG, then MEDALS_* environment variables.

Examples:
  medalsctl scrape --out data/olympic_medals_2000_2024.csv
  medalsctl ask "¿Qué país ganó más medallas de oro en 2016?"
  medalsctl aliases --file aliases.yaml --list`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.cfg = cfg

			format := cfg.LogFormat
			if opts.logFormat != "" {
				format = opts.logFormat
			}
			if err := logger.InitWith(cmd.ErrOrStderr(), format); err != nil {
				return err
			}
			level := cfg.LogLevel
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			return logger.SetLevelString(level)
		},
	}

	root.PersistentFlags().
		StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	root.PersistentFlags().
		StringVar(&opts.logFormat, "log-format", "", "log format: text or json (default from config)")

	root.AddCommand(
		newScrapeCmd(opts),
		newAskCmd(opts),
		newAliasesCmd(opts),
	)
	return root
}
