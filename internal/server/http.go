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
	// DefaultHTTPAddr is the default address of the API server.
	DefaultHTTPAddr = ":8080"

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 30 * time.Second
	// DefaultWriteTimeout leaves room for the two calendar round trips of
	// an instant meeting.
	DefaultWriteTimeout = 60 * time.Second
	DefaultIdleTimeout  = 120 * time.Second

	rateLimiterCleanupInterval = time.Minute
)

// HTTPServerConfig configures the API server.
type HTTPServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// RateLimit is the number of requests per second allowed per client
	// IP. Zero disables rate limiting.
	RateLimit  float64
	RateBurst  int
	TrustProxy bool

	Version string
	Metrics *instrumentation.Metrics
	Logger  logging.Logger
}

func (c HTTPServerConfig) withDefaults() HTTPServerConfig {
	if c.Addr == "" {
		c.Addr = DefaultHTTPAddr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.Logger == nil {
		c.Logger = logging.DefaultLogger()
	}
	return c
}

// HTTPServer serves the meeting API and the health probes.
type HTTPServer struct {
	config     HTTPServerConfig
	sc         *ServerContext
	health     *HealthChecker
	limiter    *RateLimiter
	handler    http.Handler
	httpServer *http.Server
}

// NewHTTPServer wires the API routes and middleware around sc.
func NewHTTPServer(sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if sc == nil {
		return nil, fmt.Errorf("server context cannot be nil")
	}
	config = config.withDefaults()

	s := &HTTPServer{
		config:  config,
		sc:      sc,
		health:  NewHealthChecker(sc, config.Version),
		limiter: NewRateLimiter(config.RateLimit, config.RateBurst, config.TrustProxy),
	}

	mux := http.NewServeMux()
	NewAPI(sc.Meetings(), config.Logger).Register(mux)
	s.health.RegisterHealthEndpoints(mux)

	var h http.Handler = mux
	h = withRateLimit(s.limiter, config.Metrics, config.Logger, h)
	h = withInstrumentation(config.Metrics, h)
	h = withSecurityHeaders(h)
	h = withRequestID(h)
	h = withRecovery(config.Logger, h)
	s.handler = h

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return sc.Context() },
	}
	return s, nil
}

// Handler returns the fully wrapped handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the server's health checker.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// Start listens on the configured address and serves until Shutdown.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. It returns nil after a graceful
// shutdown.
func (s *HTTPServer) Serve(ln net.Listener) error {
	if s.limiter != nil {
		go s.limiter.Run(s.sc.Context(), rateLimiterCleanupInterval)
	}

	s.config.Logger.Info("starting HTTP server", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	s.config.Logger.Info("shutting down HTTP server")

	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.sc.Shutdown())
}
