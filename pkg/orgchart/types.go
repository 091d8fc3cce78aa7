package orgchart

import (
	"context"
	"time"
)

// CustomRole is an org-chart title.
type CustomRole struct {
	ID            string    `json:"id"`
	AssociationID string    `json:"association_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	AssignedTo    *string   `json:"assigned_to,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Input is the payload of Create and Update.
// An empty AssignedTo on Update keeps the title vacant.
type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

// Storage persists titles. Get and Delete return ErrNotFound for unknown ids.
type Storage interface {
	SaveCustomRole(ctx context.Context, role CustomRole) error
	GetCustomRole(ctx context.Context, associationID, id string) (CustomRole, error)
	ListCustomRoles(ctx context.Context, associationID string) ([]CustomRole, error)
	DeleteCustomRole(ctx context.Context, associationID, id string) error
}

// MemberLookup reports whether a member belongs to an association.
// *rbac.Engine satisfies it.
type MemberLookup interface {
	MemberExists(ctx context.Context, associationID, memberID string) (bool, error)
}

// MemberLookupFunc adapts a function to MemberLookup.
type MemberLookupFunc func(ctx context.Context, associationID, memberID string) (bool, error)

func (f MemberLookupFunc) MemberExists(ctx context.Context, associationID, memberID string) (bool, error) {
	return f(ctx, associationID, memberID)
}
