package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nebulanet/panel/pkg/logger/slogx"
)

// verboseErrorHandler expands error attributes with their verbose
// representation (wrap chain and stack trace from cockroachdb/errors).
type verboseErrorHandler struct {
	next slog.Handler
}

func newVerboseErrorHandler(next slog.Handler) slog.Handler {
	return &verboseErrorHandler{next: next}
}

func (h *verboseErrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *verboseErrorHandler) Handle(ctx context.Context, rec slog.Record) error {
	rec.Attrs(func(attr slog.Attr) bool {
		if attr.Key == slogx.ErrorKey || attr.Key == "err" {
			if err, ok := attr.Value.Any().(error); ok && err != nil {
				rec.AddAttrs(slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				return false
			}
		}
		return true
	})
	return h.next.Handle(ctx, rec)
}

func (h *verboseErrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &verboseErrorHandler{next: h.next.WithAttrs(attrs)}
}

func (h *verboseErrorHandler) WithGroup(name string) slog.Handler {
	return &verboseErrorHandler{next: h.next.WithGroup(name)}
}
