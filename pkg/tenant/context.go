package tenant

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithAssociation adds an association to the context.
func WithAssociation(ctx context.Context, a *Association) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the association stored by WithAssociation.
func FromContext(ctx context.Context) (*Association, bool) {
	a, ok := ctx.Value(contextKey{}).(*Association)
	return a, ok && a != nil
}

// IDFromContext returns the id of the association in ctx.
func IDFromContext(ctx context.Context) (string, bool) {
	a, ok := FromContext(ctx)
	if !ok || a.ID == "" {
		return "", false
	}
	return a.ID, true
}

// MustFromContext panics when ctx carries no association. Use it only behind RequireAssociation.
func MustFromContext(ctx context.Context) *Association {
	a, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no association in context")
	}
	return a
}

// LoggerExtractor returns a logger context extractor adding association_id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("association_id", id), true
		}
		return slog.Attr{}, false
	}
}
