package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/server"
	"github.com/teemow/meetscheduler/internal/tools/meeting_tools"
)

const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API or the MCP server",
		Long: `Start meetscheduler as a long running server.

Transports:
  - http (default): JSON API on --http-addr. Callers pass their Google
    access token as "Authorization: Bearer <token>".
      POST /api/instant-meeting
      POST /api/schedule-meeting   {"dateTime": "...", "title": "..."}
      GET  /api/time-slots?date=YYYY-MM-DD
    Prometheus metrics are served separately on --metrics-addr.
  - stdio: MCP server on standard input/output. Tools act on behalf of the
    configured session (--access-token or the token file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	addServeFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the MCP protocol in stdio mode.
	a, err := newApp(shutdownCtx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(shutdownCtx))

	serverContext, err := server.NewServerContext(shutdownCtx, a.meetings, a.sessions)
	if err != nil {
		return err
	}
	serverContext.SetMetrics(a.provider.Metrics())
	defer func() { _ = serverContext.Shutdown() }()

	switch cfg.Transport {
	case transportStdio:
		return runStdioServer(serverContext)
	case transportHTTP, "":
		return runHTTPServer(shutdownCtx, a, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: http, stdio)", cfg.Transport)
	}
}

func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("meetscheduler", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := meeting_tools.RegisterMeetingTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register meeting tools: %w", err)
	}
	return mcpSrv, nil
}

func runStdioServer(sc *server.ServerContext) error {
	mcpSrv, err := newMCPServer(sc)
	if err != nil {
		return err
	}
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, a *app, sc *server.ServerContext) error {
	logger := logging.NewSlogAdapter(a.logger)
	errs := make(chan error, 2)

	var metricsServer *server.MetricsServer
	if a.config.MetricsEnabled && a.provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    a.config.MetricsAddr,
			InstrumentationProvider: a.provider,
			Logger:                  logger,
		})
		if err != nil {
			a.logger.Warn("metrics server disabled", logging.Err(err))
			metricsServer = nil
		} else {
			go func() {
				if err := metricsServer.Start(); err != nil {
					errs <- fmt.Errorf("metrics server: %w", err)
				}
			}()
		}
	}

	httpServer, err := server.NewHTTPServer(sc, server.HTTPServerConfig{
		Addr:       a.config.HTTPAddr,
		RateLimit:  a.config.RateLimit,
		RateBurst:  a.config.RateBurst,
		TrustProxy: a.config.TrustProxy,
		Version:    version,
		Metrics:    a.provider.Metrics(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	go func() {
		if err := httpServer.Start(); err != nil {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), server.DefaultShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("error during HTTP server shutdown", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("error during metrics server shutdown", logging.Err(err))
		}
	}
	return runErr
}
