package logger

import (
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

type Options struct {
	Development bool
	Debug       bool   // force debug level outside development
	Environment string // reported to Sentry
	SentryDSN   string
}

// Init configures the default slog logger.
// Development: text format, debug level. Production: JSON format, info level.
// Error records are additionally forwarded to Sentry when a DSN is set.
func Init(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Development || opts.Debug {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{stdoutHandler(opts.Development, level)}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("sentry init failed, continuing without it", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
	return Log
}

func stdoutHandler(dev bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if dev {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}
