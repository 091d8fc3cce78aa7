package rbac

import (
	"context"
	"sync"
)

// MemoryStore keeps tenants in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]*Tenant
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*Tenant)}
}

func (s *MemoryStore) LoadTenant(ctx context.Context, associationID string) (*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[associationID]
	if !ok {
		return nil, notFound(KindAssociation, associationID)
	}
	return t.clone(), nil
}

func (s *MemoryStore) CreateTenant(ctx context.Context, tenant *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[tenant.AssociationID]; ok {
		return invalidState("association %q already exists", tenant.AssociationID)
	}
	s.tenants[tenant.AssociationID] = tenant.clone()
	return nil
}

func (s *MemoryStore) Commit(ctx context.Context, c Commit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tenants[c.Tenant.AssociationID]
	if !ok {
		return notFound(KindAssociation, c.Tenant.AssociationID)
	}
	if current.Version() != c.ExpectedVersion {
		return ErrConcurrencyConflict
	}
	s.tenants[c.Tenant.AssociationID] = c.Tenant.clone()
	return nil
}

// MemoryLocker is a Locker for a single process. Waiting honours ctx.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewMemoryLocker returns a ready MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}
