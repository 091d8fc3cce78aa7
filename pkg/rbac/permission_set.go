package rbac

import (
	"slices"

	"github.com/assokit/assokit/pkg/permission"
)

// PermissionSet is a deduplicated, order-irrelevant set of permission ids.
type PermissionSet map[permission.ID]struct{}

// NewPermissionSet builds a set from ids.
func NewPermissionSet(ids ...permission.ID) PermissionSet {
	s := make(PermissionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s PermissionSet) Has(id permission.ID) bool {
	_, ok := s[id]
	return ok
}

// HasAny reports a non-empty intersection with ids. It is false for no ids.
func (s PermissionSet) HasAny(ids ...permission.ID) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// HasAll reports whether ids is a subset of s. It is true for no ids.
func (s PermissionSet) HasAll(ids ...permission.ID) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

func (s PermissionSet) Len() int {
	return len(s)
}

// Slice returns the ids sorted, for stable output.
func (s PermissionSet) Slice() []permission.ID {
	out := make([]permission.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets contain the same ids.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
