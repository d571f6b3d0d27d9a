package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/teemow/meetscheduler/internal/calendar"
	"github.com/teemow/meetscheduler/internal/google"
	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/meeting"
)

// app holds the dependencies built from a Config.
type app struct {
	config   Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	meetings *meeting.Service
	sessions google.SessionProvider
}

// newApp wires logging, instrumentation, the calendar client, the meeting
// service and the session provider. Logs go to logOut.
func newApp(ctx context.Context, cfg Config, logOut io.Writer) (*app, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logOut, cfg.LogFormat, level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	instrConfig, err := instrumentation.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid instrumentation config: %w", err)
	}
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	metrics := provider.Metrics()

	clientOpts := []calendar.Option{
		calendar.WithCalendarID(cfg.CalendarID),
		calendar.WithMetrics(metrics),
	}
	if cfg.CalendarEndpoint != "" {
		clientOpts = append(clientOpts, calendar.WithEndpoint(cfg.CalendarEndpoint))
	}
	client := calendar.NewClient(clientOpts...)

	adapter := logging.NewSlogAdapter(logger)
	meetings, err := meeting.NewService(client,
		meeting.Config{TimeZone: cfg.TimeZone, Duration: cfg.MeetingDuration},
		meeting.WithLogger(adapter),
		meeting.WithRecorder(metrics),
		meeting.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
	)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	sessions, err := newSessionProvider(cfg, metrics, adapter)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	logger.Debug("configuration loaded",
		"time_zone", cfg.TimeZone,
		"calendar_id", client.CalendarID(),
		"meeting_duration", cfg.MeetingDuration,
		logging.Token(cfg.AccessToken),
	)

	return &app{
		config:   cfg,
		logger:   logger,
		provider: provider,
		meetings: meetings,
		sessions: sessions,
	}, nil
}

// newSessionProvider prefers an explicit access token over the token file.
func newSessionProvider(cfg Config, metrics *instrumentation.Metrics, logger logging.Logger) (google.SessionProvider, error) {
	if cfg.AccessToken != "" {
		return google.NewStaticSessionProvider(cfg.AccessToken), nil
	}

	path := cfg.TokenFile
	if path == "" {
		var err error
		if path, err = google.DefaultTokenPath(); err != nil {
			return nil, err
		}
	}

	opts := []google.FileSessionOption{
		google.WithSessionMetrics(metrics),
		google.WithSessionLogger(logger),
	}
	if oauthConfig := google.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret); oauthConfig != nil {
		opts = append(opts, google.WithRefreshConfig(oauthConfig))
	}
	return google.NewFileSessionProvider(path, opts...), nil
}

// accessToken resolves the session token for one-shot commands.
func (a *app) accessToken(ctx context.Context) (string, error) {
	token, err := a.sessions.Session(ctx)
	if err != nil {
		return "", fmt.Errorf("%w (set --access-token or provide a token file)", err)
	}
	return meeting.Authorize(token)
}

// close flushes telemetry.
func (a *app) close(ctx context.Context) {
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}
