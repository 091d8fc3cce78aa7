package rbac

import "context"

// Store persists tenant aggregates.
type Store interface {
	// LoadTenant returns the committed aggregate. It returns a NotFoundError
	// of KindAssociation when the tenant does not exist.
	LoadTenant(ctx context.Context, associationID string) (*Tenant, error)
	// CreateTenant stores a new aggregate. It fails with ErrInvalidState when
	// the tenant already exists.
	CreateTenant(ctx context.Context, tenant *Tenant) error
	// Commit persists c.Tenant if the stored version still equals
	// c.ExpectedVersion, and fails with ErrConcurrencyConflict otherwise.
	Commit(ctx context.Context, c Commit) error
}

// UnlockFunc releases a lock obtained from a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker serializes mutations of one tenant.
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// LockKey returns the lock key used for associationID.
func LockKey(associationID string) string {
	return "rbac:tenant:" + associationID
}
