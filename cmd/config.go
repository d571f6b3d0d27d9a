package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/meeting"
	"github.com/teemow/meetscheduler/internal/server"
)

const (
	envPrefix      = "MEETSCHEDULER"
	configFileName = "meetscheduler"
)

// Config keys. They double as flag names.
const (
	keyConfig             = "config"
	keyHTTPAddr           = "http-addr"
	keyMetricsAddr        = "metrics-addr"
	keyMetricsEnabled     = "metrics-enabled"
	keyTimeZone           = "time-zone"
	keyMeetingDuration    = "meeting-duration"
	keyCalendarEndpoint   = "calendar-endpoint"
	keyCalendarID         = "calendar-id"
	keyRateLimit          = "rate-limit"
	keyRateBurst          = "rate-burst"
	keyTrustProxy         = "trust-proxy"
	keyLogLevel           = "log-level"
	keyLogFormat          = "log-format"
	keyTokenFile          = "token-file"
	keyAccessToken        = "access-token"
	keyGoogleClientID     = "google-client-id"
	keyGoogleClientSecret = "google-client-secret"
	keyTransport          = "transport"
)

// Config is the resolved configuration of a command run.
type Config struct {
	HTTPAddr       string
	MetricsAddr    string
	MetricsEnabled bool
	Transport      string

	TimeZone         string
	MeetingDuration  time.Duration
	CalendarEndpoint string
	CalendarID       string

	RateLimit  float64
	RateBurst  int
	TrustProxy bool

	LogLevel  string
	LogFormat string

	TokenFile          string
	AccessToken        string
	GoogleClientID     string
	GoogleClientSecret string
}

// addGlobalFlags registers the flags shared by every command.
func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(keyConfig, "", "Config file (default: ./meetscheduler.yaml or $XDG_CONFIG_HOME/meetscheduler/meetscheduler.yaml)")
	f.String(keyTimeZone, "", "IANA time zone for created events and display date times (default: local zone)")
	f.Duration(keyMeetingDuration, meeting.DefaultDuration, "Length of created meetings")
	f.String(keyCalendarEndpoint, "", "Override the Google Calendar API endpoint")
	f.String(keyCalendarID, "primary", "Calendar that receives the meeting events")
	f.String(keyLogLevel, "info", "Log level: debug, info, warn, error")
	f.String(keyLogFormat, logging.FormatText, "Log format: text or json")
	f.String(keyTokenFile, "", "Path of the Google OAuth token file (default: user cache dir)")
	f.String(keyAccessToken, "", "Google access token to use instead of the token file")
	f.String(keyGoogleClientID, "", "Google OAuth client ID used to refresh the token file")
	f.String(keyGoogleClientSecret, "", "Google OAuth client secret used to refresh the token file")
}

// addServeFlags registers the flags of the serve command.
func addServeFlags(f *pflag.FlagSet) {
	f.String(keyTransport, "http", "Transport: http or stdio (MCP)")
	f.String(keyHTTPAddr, server.DefaultHTTPAddr, "Address of the HTTP API")
	f.String(keyMetricsAddr, server.DefaultMetricsAddr, "Address of the Prometheus metrics server")
	f.Bool(keyMetricsEnabled, true, "Serve Prometheus metrics on --metrics-addr")
	f.Float64(keyRateLimit, 10, "Requests per second allowed per client IP (0 disables)")
	f.Int(keyRateBurst, 20, "Burst size of the per-IP rate limit")
	f.Bool(keyTrustProxy, false, "Trust X-Forwarded-For and X-Real-IP for client IPs")
}

// newViper binds cmd's flags, MEETSCHEDULER_* environment variables and
// the optional config file, in decreasing precedence.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "meetscheduler"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// loadConfig resolves the configuration of cmd.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:           v.GetString(keyHTTPAddr),
		MetricsAddr:        v.GetString(keyMetricsAddr),
		MetricsEnabled:     v.GetBool(keyMetricsEnabled),
		Transport:          v.GetString(keyTransport),
		TimeZone:           v.GetString(keyTimeZone),
		MeetingDuration:    v.GetDuration(keyMeetingDuration),
		CalendarEndpoint:   v.GetString(keyCalendarEndpoint),
		CalendarID:         v.GetString(keyCalendarID),
		RateLimit:          v.GetFloat64(keyRateLimit),
		RateBurst:          v.GetInt(keyRateBurst),
		TrustProxy:         v.GetBool(keyTrustProxy),
		LogLevel:           v.GetString(keyLogLevel),
		LogFormat:          v.GetString(keyLogFormat),
		TokenFile:          v.GetString(keyTokenFile),
		AccessToken:        v.GetString(keyAccessToken),
		GoogleClientID:     v.GetString(keyGoogleClientID),
		GoogleClientSecret: v.GetString(keyGoogleClientSecret),
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = localZoneName()
	}
	if cfg.MeetingDuration <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", keyMeetingDuration, cfg.MeetingDuration)
	}
	return cfg, nil
}

// localZoneName returns the IANA name of the process time zone, falling
// back to UTC when it cannot be determined.
func localZoneName() string {
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if _, name, ok := strings.Cut(target, "zoneinfo/"); ok {
			if _, err := time.LoadLocation(name); err == nil {
				return name
			}
		}
	}
	return "UTC"
}
