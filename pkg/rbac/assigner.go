package rbac

import (
	"slices"
	"strings"
	"time"

	"github.com/assokit/assokit/pkg/permission"
)

// MandatoryRoleWarning signals that a mandatory role has no active holder.
// It is informational unless the engine runs with WithStrictMandatoryRoles.
type MandatoryRoleWarning struct {
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
}

func (w MandatoryRoleWarning) String() string {
	return "mandatory role " + w.RoleName + " has no active holder"
}

// checkAssignable verifies that every role exists and that unique roles are
// not held by an active member other than memberID.
func (t *Tenant) checkAssignable(memberID string, roleIDs []string) error {
	for _, id := range roleIDs {
		role, ok := t.Roles.Role(id)
		if !ok {
			return notFound(KindRole, id)
		}
		if !role.IsUnique {
			continue
		}
		if holders := t.activeHolders(id, memberID); len(holders) > 0 {
			return &UniqueRoleConflictError{RoleID: id, RoleName: role.Name, HolderID: holders[0]}
		}
	}
	return nil
}

// replaceAssignedRoles sets the member's roles to exactly roleIDs. It is a
// full replace, never a merge: roles missing from roleIDs are removed. Nothing
// is modified unless every id passes.
func (t *Tenant) replaceAssignedRoles(memberID string, roleIDs []string, now time.Time) (Member, []Event, error) {
	m, ok := t.Members[memberID]
	if !ok {
		return Member{}, nil, notFound(KindMember, memberID)
	}

	next := normalizeIDs(roleIDs)
	if err := t.checkAssignable(memberID, next); err != nil {
		return Member{}, nil, err
	}

	var events []Event
	for _, id := range m.AssignedRoles {
		if !slices.Contains(next, id) {
			events = append(events, Event{Type: EventRoleRemoved, MemberID: memberID, RoleID: id})
		}
	}
	for _, id := range next {
		if !m.HasRole(id) {
			events = append(events, Event{Type: EventRoleAssigned, MemberID: memberID, RoleID: id})
		}
	}

	m.AssignedRoles = next
	m.UpdatedAt = now
	t.putMember(m)

	out, _ := t.Member(memberID)
	return out, events, nil
}

func (t *Tenant) removeRole(memberID, roleID string, now time.Time) (Member, []MandatoryRoleWarning, []Event, error) {
	m, ok := t.Members[memberID]
	if !ok {
		return Member{}, nil, nil, notFound(KindMember, memberID)
	}
	if !m.HasRole(roleID) {
		return Member{}, nil, nil, notFound(KindRoleAssignment, roleID)
	}

	m.AssignedRoles = slices.DeleteFunc(slices.Clone(m.AssignedRoles), func(id string) bool { return id == roleID })
	m.UpdatedAt = now
	t.putMember(m)

	var warnings []MandatoryRoleWarning
	if m.Active() {
		warnings = t.vacatedMandatoryRoles([]string{roleID})
	}

	out, _ := t.Member(memberID)
	return out, warnings, []Event{{Type: EventRoleRemoved, MemberID: memberID, RoleID: roleID}}, nil
}

type overrideMode int

const (
	overrideGrant overrideMode = iota
	overrideRevoke
	overrideClear
)

// overridePermission moves id into the granted or revoked set, removing it
// from the other one, or clears it from both.
func (t *Tenant) overridePermission(memberID string, id permission.ID, mode overrideMode, now time.Time) (Member, []Event, error) {
	m, ok := t.Members[memberID]
	if !ok {
		return Member{}, nil, notFound(KindMember, memberID)
	}
	if !t.Roles.AvailablePermissions.Has(id) {
		return Member{}, nil, notFound(KindPermission, string(id))
	}

	without := func(ids []permission.ID) []permission.ID {
		return slices.DeleteFunc(slices.Clone(ids), func(p permission.ID) bool { return p == id })
	}

	cp := CustomPermissions{
		Granted: without(m.CustomPermissions.Granted),
		Revoked: without(m.CustomPermissions.Revoked),
	}

	var evType EventType
	switch mode {
	case overrideGrant:
		cp.Granted = append(cp.Granted, id)
		evType = EventPermissionGranted
	case overrideRevoke:
		cp.Revoked = append(cp.Revoked, id)
		evType = EventPermissionRevoked
	default:
		evType = EventPermissionCleared
	}

	m.CustomPermissions = cp
	m.UpdatedAt = now
	t.putMember(m)

	out, _ := t.Member(memberID)
	return out, []Event{{Type: evType, MemberID: memberID, PermissionID: id}}, nil
}

func normalizeIDs(ids []string) []string {
	trimmed := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			trimmed = append(trimmed, id)
		}
	}
	return dedupe(trimmed)
}
