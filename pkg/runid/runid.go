package runid

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// New returns a fresh run identifier.
func New() string {
	return uuid.NewString()
}

// WithContext stores id in ctx.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the run id stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// LoggerExtractor returns a logger.ContextExtractor that adds run_id to
// every record logged with a context carrying one.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("run_id", id), true
		}
		return slog.Attr{}, false
	}
}
