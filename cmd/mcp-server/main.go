// Command mcp-server exposes the medals question answering service as MCP
// tools over stdio or streamable HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/medals/internal/adapters/mcpserver"
	app "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/config"
	"github.com/okian/medals/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	// stdout carries the stdio transport; logs go to stderr.
	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		return err
	}
	log := logger.Named("mcp")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	svc, err := app.NewFromConfig(cfg, logger.Get())
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	srv := mcpserver.New(svc,
		mcpserver.WithLogger(log),
		mcpserver.WithMaxRankingLimit(cfg.MaxRankingLimit),
	)
	return srv.Serve(ctx, cfg.MCP.Transport, cfg.MCP.Addr, os.Stdin, os.Stdout)
}
