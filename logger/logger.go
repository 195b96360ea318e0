package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/xy-planning-network/enumfields"
)

const (
	logLevelEnvVar  = "LOG_LEVEL"
	logJSONEnvVar   = "LOG_JSON"
	sentryDsnEnvVar = "SENTRY_DSN"

	timeFormat = "2006-01-02 15:04:05.000"
)

// New constructs a [*log/slog.Logger] tagged with kind.
//
// In [enumfields.Development], records are colorized by [github.com/lmittmann/tint]
// unless LOG_JSON is "true"; everywhere else they are JSON.
// The level is read from LOG_LEVEL and defaults to INFO.
// When SENTRY_DSN is set, error records are also reported to Sentry.
func New(kind slog.Value, env enumfields.Environment, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stdout
	}

	lvl := new(slog.LevelVar)
	lvl.Set(enumfields.EnvVarOrLogLevel(logLevelEnvVar, slog.LevelInfo))

	var handler slog.Handler
	if !env.IsDevelopment() || enumfields.EnvVarOrBool(logJSONEnvVar, false) {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: TruncSourceAttr,
		})
	} else {
		handler = tint.NewHandler(out, &tint.Options{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: timeFormat,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = ColorizeLevel(groups, a)
				return TruncSourceAttr(groups, a)
			},
		})
	}

	handler = handler.WithAttrs([]slog.Attr{{Key: enumfields.LogKindKey, Value: kind}})

	l := slog.New(handler)
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		sh, err := NewSentryHandler(handler, dsn, env)
		if err != nil {
			l.Error("unable to init Sentry", "error", err)
			return l
		}

		l = slog.New(sh)
		l.Debug("reporting errors to Sentry")
	}

	return l
}
