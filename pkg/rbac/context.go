package rbac

import (
	"context"
	"log/slog"
)

type memberKey struct{}

// WithMember stores the authenticated member id in ctx.
func WithMember(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberKey{}, memberID)
}

// MemberIDFromContext returns the member id stored by WithMember.
func MemberIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(memberKey{}).(string)
	return id, ok && id != ""
}

// LoggerExtractor returns a logger context extractor adding member_id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := MemberIDFromContext(ctx); ok {
			return slog.String("member_id", id), true
		}
		return slog.Attr{}, false
	}
}
