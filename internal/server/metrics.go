package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
)

const (
	DefaultMetricsAddr = ":9090"

	// Scrapes are small; the metrics listener gets tighter limits than the API.
	DefaultMetricsReadTimeout  = 10 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
	DefaultMetricsIdleTimeout  = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of both listeners.
	DefaultShutdownTimeout = 30 * time.Second
)

var (
	errNoProvider       = errors.New("instrumentation provider is required for metrics server")
	errProviderDisabled = errors.New("instrumentation provider is not enabled")
)

// MetricsServerConfig configures the Prometheus scrape listener.
type MetricsServerConfig struct {
	Addr                    string
	InstrumentationProvider *instrumentation.Provider
	Logger                  logging.Logger
}

// MetricsServer exposes /metrics on its own listener so scrapes bypass the
// API middleware (rate limiting, request metrics).
type MetricsServer struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewMetricsServer fails unless the provider runs the prometheus exporter.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	provider := config.InstrumentationProvider
	switch {
	case provider == nil:
		return nil, errNoProvider
	case !provider.Enabled():
		return nil, errProviderDisabled
	}
	scrape := provider.MetricsHandler()
	if scrape == nil {
		return nil, fmt.Errorf("metrics exporter %q has no scrape endpoint, use prometheus", provider.ExporterName())
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", scrape)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return &MetricsServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: DefaultMetricsReadTimeout,
			WriteTimeout:      DefaultMetricsWriteTimeout,
			IdleTimeout:       DefaultMetricsIdleTimeout,
		},
		logger: logger,
	}, nil
}

func (s *MetricsServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *MetricsServer) Addr() string {
	return s.httpServer.Addr
}

// Start listens on Addr and serves until Shutdown.
func (s *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	return s.Serve(ln)
}

// Serve serves on ln and returns nil after a graceful shutdown.
func (s *MetricsServer) Serve(ln net.Listener) error {
	s.logger.Info("starting metrics server", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown is safe to call before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}
