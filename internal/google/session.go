package google

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
)

// ErrNoSession is returned when no token is available.
var ErrNoSession = errors.New("no Google session available")

// SessionProvider returns the OAuth token of the current session.
// The token may be expired; callers decide what that means.
type SessionProvider interface {
	Session(ctx context.Context) (*oauth2.Token, error)
}

// StaticSessionProvider serves a fixed access token, e.g. from a flag or
// environment variable. It never expires.
type StaticSessionProvider struct {
	token *oauth2.Token
}

// NewStaticSessionProvider wraps accessToken.
func NewStaticSessionProvider(accessToken string) *StaticSessionProvider {
	return &StaticSessionProvider{
		token: &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"},
	}
}

// Session returns the configured token.
func (p *StaticSessionProvider) Session(context.Context) (*oauth2.Token, error) {
	if p.token.AccessToken == "" {
		return nil, ErrNoSession
	}
	return p.token, nil
}

// FileSessionProvider reads the session token from a JSON file on every
// call. When an OAuth client config is set and the stored token is
// expired, it is refreshed and written back.
type FileSessionProvider struct {
	path    string
	config  *oauth2.Config
	metrics *instrumentation.Metrics
	logger  logging.Logger

	// mu serialises refresh and write-back.
	mu sync.Mutex
}

// FileSessionOption configures a FileSessionProvider.
type FileSessionOption func(*FileSessionProvider)

// WithRefreshConfig enables on-demand refresh with the given client config.
func WithRefreshConfig(config *oauth2.Config) FileSessionOption {
	return func(p *FileSessionProvider) {
		p.config = config
	}
}

// WithSessionMetrics records refresh attempts.
func WithSessionMetrics(m *instrumentation.Metrics) FileSessionOption {
	return func(p *FileSessionProvider) {
		p.metrics = m
	}
}

// WithSessionLogger sets the logger for refresh outcomes.
func WithSessionLogger(logger logging.Logger) FileSessionOption {
	return func(p *FileSessionProvider) {
		p.logger = logger
	}
}

// NewFileSessionProvider reads tokens from path.
func NewFileSessionProvider(path string, opts ...FileSessionOption) *FileSessionProvider {
	p := &FileSessionProvider{
		path:   path,
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the token file location.
func (p *FileSessionProvider) Path() string {
	return p.path
}

// Session returns the stored token, refreshed if needed and possible.
func (p *FileSessionProvider) Session(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, err := ReadTokenFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	if token.Valid() || p.config == nil || token.RefreshToken == "" {
		return token, nil
	}

	refreshed, err := p.config.TokenSource(ctx, token).Token()
	if err != nil {
		p.metrics.RecordTokenRefresh(ctx, instrumentation.TokenResultFailure)
		p.logger.Warn("failed to refresh Google token", logging.Err(err))
		// The gate rejects the stale token.
		return token, nil
	}
	p.metrics.RecordTokenRefresh(ctx, instrumentation.TokenResultSuccess)

	if refreshed.AccessToken != token.AccessToken {
		if err := WriteTokenFile(p.path, refreshed); err != nil {
			p.logger.Warn("failed to persist refreshed Google token", logging.Err(err))
		} else {
			p.logger.Debug("refreshed Google token", logging.Token(refreshed.AccessToken))
		}
	}
	return refreshed, nil
}
