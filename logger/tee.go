package logger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

// WithHandlers returns a context whose loggers write to the context logger (or
// slog.Default()) and to each non-nil handler as well.
func WithHandlers(ctx context.Context, handlers ...slog.Handler) context.Context {
	ctx = getRealContext(ctx)

	extra := slices.DeleteFunc(slices.Clone(handlers), func(h slog.Handler) bool { return h == nil })
	if len(extra) == 0 {
		return ctx
	}

	base, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || base == nil {
		base = slog.Default()
	}

	return WithLogger(ctx, slog.New(Tee(append([]slog.Handler{base.Handler()}, extra...)...)))
}

// Tee returns a handler that sends every record to each of handlers. Nil handlers
// are skipped.
func Tee(handlers ...slog.Handler) slog.Handler {
	out := make([]slog.Handler, 0, len(handlers))

	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}

	return &teeHandler{handlers: out}
}

type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, h := range t.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}

		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithAttrs(attrs)
	}

	return &teeHandler{handlers: out}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithGroup(name)
	}

	return &teeHandler{handlers: out}
}
