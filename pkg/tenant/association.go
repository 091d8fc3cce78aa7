package tenant

import (
	"context"
	"time"
)

// Association is the request-scoped view of a tenant.
type Association struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider loads associations by id or slug.
type Provider interface {
	// GetByIdentifier returns ErrAssociationNotFound when nothing matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Association, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, identifier string) (*Association, error)

func (f ProviderFunc) GetByIdentifier(ctx context.Context, identifier string) (*Association, error) {
	return f(ctx, identifier)
}
