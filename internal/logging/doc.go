// Package logging holds the slog conventions for meetscheduler: shared
// attribute keys and helpers, the Logger interface injected into the
// meeting engine, and handler construction for the CLI.
//
// Loggers built by NewLogger mask values under credential keys
// (token, access_token, authorization, ...) even when a call site forgets
// to use Token:
//
//	logger, _ := logging.NewLogger(os.Stderr, logging.FormatJSON, slog.LevelInfo)
//	logger.Info("meeting created",
//	    logging.MeetingKind("instant"),
//	    logging.EventID(created.ID),
//	    logging.Token(accessToken)) // token="[token:183 chars]"
package logging
