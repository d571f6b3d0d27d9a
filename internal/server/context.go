package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/teemow/meetscheduler/internal/google"
	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/meeting"
)

// ServerContext holds the long-lived dependencies shared by the HTTP API
// and the MCP tools.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	meetings *meeting.Service
	sessions google.SessionProvider
	metrics  *instrumentation.Metrics
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. sessions may be nil when
// every caller brings its own token, as the HTTP API does.
func NewServerContext(ctx context.Context, meetings *meeting.Service, sessions google.SessionProvider) (*ServerContext, error) {
	if meetings == nil {
		return nil, fmt.Errorf("meeting service cannot be nil")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		meetings: meetings,
		sessions: sessions,
	}, nil
}

// Context returns the server context. It is cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Meetings returns the meeting service.
func (sc *ServerContext) Meetings() *meeting.Service {
	return sc.meetings
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when none is configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AccessToken resolves the access token of the configured session.
// Any failure is reported as an unauthorized meeting error.
func (sc *ServerContext) AccessToken(ctx context.Context) (string, error) {
	if sc.sessions == nil {
		return "", meeting.ErrUnauthorized
	}
	token, err := sc.sessions.Session(ctx)
	if err != nil {
		return "", &meeting.Error{Kind: meeting.KindUnauthorized, Message: meeting.ErrUnauthorized.Message, Err: err}
	}
	return meeting.Authorize(token)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
