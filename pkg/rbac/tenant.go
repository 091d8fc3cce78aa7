package rbac

import (
	"maps"
	"slices"
	"strings"

	"github.com/assokit/assokit/pkg/permission"
)

// Tenant is the aggregate owned by one association: its role catalog, its
// members and the single administrator designation.
//
// A *Tenant handed out by the engine is a read-only snapshot. Mutations are
// applied to a clone and swapped in after a successful commit.
type Tenant struct {
	AssociationID string
	AdminMemberID string
	Roles         RolesConfiguration
	Members       map[string]Member

	// change tracking for Store.Commit, reset on clone
	rolesChanged bool
	adminChanged bool
	touched      map[string]struct{}
}

// NewTenant returns an empty aggregate for associationID using catalog.
func NewTenant(associationID string, catalog *permission.Catalog) *Tenant {
	return &Tenant{
		AssociationID: associationID,
		Roles:         RolesConfiguration{AvailablePermissions: catalog},
		Members:       make(map[string]Member),
	}
}

// Version returns the optimistic-concurrency token of the aggregate.
func (t *Tenant) Version() int64 {
	return t.Roles.Version
}

// Member returns a copy of the member with IsAdmin derived from the aggregate.
func (t *Tenant) Member(id string) (Member, bool) {
	m, ok := t.Members[id]
	if !ok {
		return Member{}, false
	}
	m = m.clone()
	m.IsAdmin = id != "" && id == t.AdminMemberID
	return m, true
}

// MemberList returns copies of all members ordered by join date, then id.
func (t *Tenant) MemberList() []Member {
	out := make([]Member, 0, len(t.Members))
	for id := range t.Members {
		m, _ := t.Member(id)
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Member) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// IsAdmin reports whether memberID is the association administrator.
func (t *Tenant) IsAdmin(memberID string) bool {
	return memberID != "" && memberID == t.AdminMemberID
}

// ActiveHolders returns the ids of active members holding roleID, sorted.
func (t *Tenant) ActiveHolders(roleID string) []string {
	return t.activeHolders(roleID, "")
}

func (t *Tenant) activeHolders(roleID, exclude string) []string {
	var holders []string
	for id, m := range t.Members {
		if id == exclude || !m.Active() {
			continue
		}
		if m.HasRole(roleID) {
			holders = append(holders, id)
		}
	}
	slices.Sort(holders)
	return holders
}

// userMember returns the id of the member bound to userID, if any.
func (t *Tenant) userMember(userID string) (string, bool) {
	for id, m := range t.Members {
		if m.UserID == userID {
			return id, true
		}
	}
	return "", false
}

func (t *Tenant) putMember(m Member) {
	m.IsAdmin = false
	t.Members[m.ID] = m
	if t.touched == nil {
		t.touched = make(map[string]struct{})
	}
	t.touched[m.ID] = struct{}{}
}

func (t *Tenant) clone() *Tenant {
	members := make(map[string]Member, len(t.Members))
	for id, m := range t.Members {
		members[id] = m.clone()
	}
	return &Tenant{
		AssociationID: t.AssociationID,
		AdminMemberID: t.AdminMemberID,
		Roles:         t.Roles.clone(),
		Members:       members,
	}
}

// Clone returns a deep copy without change tracking.
func (t *Tenant) Clone() *Tenant {
	return t.clone()
}

// Commit describes one mutation to persist.
type Commit struct {
	// Tenant is the state after the mutation.
	Tenant *Tenant
	// ExpectedVersion is the version the mutation was computed against.
	ExpectedVersion int64
	// RolesChanged is set when the role catalog was modified.
	RolesChanged bool
	// AdminChanged is set when AdminMemberID was modified.
	AdminChanged bool
	// Members lists ids of members created or updated, sorted.
	Members []string
}

func (t *Tenant) pendingCommit(expected int64) Commit {
	ids := slices.Sorted(maps.Keys(t.touched))
	return Commit{
		Tenant:          t,
		ExpectedVersion: expected,
		RolesChanged:    t.rolesChanged,
		AdminChanged:    t.adminChanged,
		Members:         ids,
	}
}

func (t *Tenant) resetTracking() {
	t.rolesChanged = false
	t.adminChanged = false
	t.touched = nil
}
