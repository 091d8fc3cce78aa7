package orgchart

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps titles in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	roles map[string]map[string]CustomRole
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{roles: make(map[string]map[string]CustomRole)}
}

func (s *MemoryStorage) SaveCustomRole(_ context.Context, role CustomRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.roles[role.AssociationID]
	if !ok {
		byID = make(map[string]CustomRole)
		s.roles[role.AssociationID] = byID
	}
	byID[role.ID] = copyRole(role)
	return nil
}

func (s *MemoryStorage) GetCustomRole(_ context.Context, associationID, id string) (CustomRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[associationID][id]
	if !ok {
		return CustomRole{}, ErrNotFound
	}
	return copyRole(role), nil
}

func (s *MemoryStorage) ListCustomRoles(_ context.Context, associationID string) ([]CustomRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CustomRole, 0, len(s.roles[associationID]))
	for _, role := range s.roles[associationID] {
		out = append(out, copyRole(role))
	}
	slices.SortFunc(out, func(a, b CustomRole) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *MemoryStorage) DeleteCustomRole(_ context.Context, associationID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[associationID][id]; !ok {
		return ErrNotFound
	}
	delete(s.roles[associationID], id)
	return nil
}

func copyRole(r CustomRole) CustomRole {
	if r.AssignedTo != nil {
		v := *r.AssignedTo
		r.AssignedTo = &v
	}
	return r
}
