package rbac

import (
	"context"
	"errors"

	"github.com/assokit/assokit/pkg/tenant"
)

// GetByIdentifier implements tenant.Provider for associations known to the
// engine. Every bootstrapped association is reported active.
func (e *Engine) GetByIdentifier(ctx context.Context, identifier string) (*tenant.Association, error) {
	if _, err := e.snapshot(ctx, identifier); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, tenant.ErrAssociationNotFound
		}
		return nil, err
	}
	return &tenant.Association{ID: identifier, Slug: identifier, Name: identifier, Active: true}, nil
}

var _ tenant.Provider = (*Engine)(nil)
