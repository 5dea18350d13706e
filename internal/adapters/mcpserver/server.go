// Package mcpserver exposes the medals service as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/config"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/types"
	"github.com/okian/medals/pkg/logger"
)

const (
	serverName      = "medals"
	serverVersion   = "1.0.0"
	shutdownTimeout = 10 * time.Second

	instructions = "Answers questions about the Summer Olympics medal table (2000-2024). " +
		"Use ask_medals for free-form questions in Spanish or English, country_medals for one " +
		"nation's tally and medal_ranking for ordered standings."
)

// ErrUnknownTransport is returned by Serve for transports other than stdio and http.
var ErrUnknownTransport = errors.New("mcpserver: unknown transport")

// Dependencies required by the tools.
type Dependencies interface {
	Ask(ctx context.Context, question string) (service.Reply, error)
	Country(ctx context.Context, country string, year int) (service.Reply, error)
	Ranking(ctx context.Context, year int, medal model.MedalType, limit int) ([]types.StandingEntry, error)
}

// Server wraps an MCP server with the medals tools registered.
type Server struct {
	deps     Dependencies
	mcp      *server.MCPServer
	tools    []server.ServerTool
	maxLimit int
	logger   logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxRankingLimit caps the limit argument of medal_ranking.
func WithMaxRankingLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// New builds the MCP server and registers its tools.
func New(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	s.mcp = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)
	s.tools = s.buildTools()
	s.mcp.AddTools(s.tools...)
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve blocks serving transport until ctx is done. stdio speaks over in
// and out; http serves streamable HTTP on addr.
func (s *Server) Serve(ctx context.Context, transport, addr string, in io.Reader, out io.Writer) error {
	switch transport {
	case config.TransportStdio:
		s.logger.Info(ctx, "serving MCP over stdio")
		err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case config.TransportHTTP:
		return s.serveHTTP(ctx, addr)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, transport)
	}
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpSrv := server.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "serving MCP over streamable HTTP", logger.String("addr", addr))
		if err := httpSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "MCP server shutdown failed", logger.Error(err))
		return err
	}
	return nil
}
