package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/xy-planning-network/enumfields"
)

// A SentryHandler passes records to the wrapped slog.Handler
// and reports those at or above ERROR to Sentry.
type SentryHandler struct {
	slog.Handler
	hub *sentry.Hub
}

// NewSentryHandler initializes Sentry with dsn and wraps next.
func NewSentryHandler(next slog.Handler, dsn string, env enumfields.Environment) (*SentryHandler, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", enumfields.ErrBadConfig, err)
	}

	return &SentryHandler{Handler: next, hub: sentry.CurrentHub()}, nil
}

// Handle implements slog.Handler.
func (h *SentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		h.send(r)
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SentryHandler{Handler: h.Handler.WithAttrs(attrs), hub: h.hub}
}

// WithGroup implements slog.Handler.
func (h *SentryHandler) WithGroup(name string) slog.Handler {
	return &SentryHandler{Handler: h.Handler.WithGroup(name), hub: h.hub}
}

func (h *SentryHandler) send(r slog.Record) {
	h.hub.WithScope(func(scope *sentry.Scope) {
		extra := make(map[string]any, r.NumAttrs())
		var err error
		r.Attrs(func(a slog.Attr) bool {
			if e, ok := a.Value.Any().(error); ok && err == nil {
				err = e
			}

			extra[a.Key] = a.Value.String()
			return true
		})

		scope.SetLevel(sentry.LevelError)
		scope.SetExtras(extra)
		if err != nil {
			h.hub.CaptureException(fmt.Errorf("%s: %w", r.Message, err))
			return
		}

		h.hub.CaptureMessage(r.Message)
	})
}
