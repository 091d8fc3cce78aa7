package rbac

import (
	"slices"
	"strings"
	"time"
)

var statusTransitions = map[MemberStatus][]MemberStatus{
	StatusPending:   {StatusActive, StatusInactive},
	StatusActive:    {StatusSuspended, StatusInactive},
	StatusSuspended: {StatusActive, StatusInactive},
	StatusInactive:  {StatusActive},
}

// Valid reports whether s is a known member status.
func (s MemberStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether a member may move from s to next.
func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	return slices.Contains(statusTransitions[s], next)
}

func (t *Tenant) addMember(id string, in MemberInput, now time.Time) (Member, []Event, error) {
	userID := strings.TrimSpace(in.UserID)
	switch {
	case strings.TrimSpace(id) == "":
		return Member{}, nil, invalidState("member id is required")
	case userID == "":
		return Member{}, nil, invalidState("user id is required")
	}
	if _, exists := t.Members[id]; exists {
		return Member{}, nil, invalidState("member %q already exists", id)
	}
	if existing, ok := t.userMember(userID); ok {
		return Member{}, nil, invalidState("user %q is already member %q", userID, existing)
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return Member{}, nil, invalidState("unknown member status %q", status)
	}

	roles := normalizeIDs(in.AssignedRoles)
	if err := t.checkAssignable(id, roles); err != nil {
		return Member{}, nil, err
	}

	custom, err := t.normalizeOverrides(in.CustomPermissions)
	if err != nil {
		return Member{}, nil, err
	}

	m := Member{
		ID:                id,
		UserID:            userID,
		AssociationID:     t.AssociationID,
		SectionID:         in.SectionID,
		AssignedRoles:     roles,
		CustomPermissions: custom,
		MemberType:        in.MemberType,
		Status:            status,
		JoinedAt:          now,
		UpdatedAt:         now,
	}
	if status == StatusInactive {
		left := now
		m.LeftAt = &left
	}
	t.putMember(m.clone())

	out, _ := t.Member(id)
	return out, []Event{{Type: EventMemberAdded, MemberID: id, ToStatus: status}}, nil
}

func (t *Tenant) normalizeOverrides(cp CustomPermissions) (CustomPermissions, error) {
	out := CustomPermissions{
		Granted: dedupe(cp.Granted),
		Revoked: dedupe(cp.Revoked),
	}
	for _, id := range slices.Concat(out.Granted, out.Revoked) {
		if !t.Roles.AvailablePermissions.Has(id) {
			return CustomPermissions{}, notFound(KindPermission, string(id))
		}
	}
	for _, id := range out.Granted {
		if slices.Contains(out.Revoked, id) {
			return CustomPermissions{}, invalidState("permission %q is both granted and revoked", id)
		}
	}
	return out, nil
}

// changeMemberStatus moves the member along the lifecycle. Roles are kept in
// every state; only active members count as holders.
func (t *Tenant) changeMemberStatus(memberID string, next MemberStatus, now time.Time) (Member, []MandatoryRoleWarning, []Event, error) {
	m, ok := t.Members[memberID]
	if !ok {
		return Member{}, nil, nil, notFound(KindMember, memberID)
	}
	if !next.Valid() {
		return Member{}, nil, nil, invalidState("unknown member status %q", next)
	}
	if !m.Status.CanTransitionTo(next) {
		return Member{}, nil, nil, invalidState("member %q cannot go from %s to %s", memberID, m.Status, next)
	}
	if t.IsAdmin(memberID) && next != StatusActive {
		return Member{}, nil, nil, invalidState("administrator %q must stay active; transfer administration first", memberID)
	}

	if next == StatusActive {
		for _, roleID := range m.AssignedRoles {
			role, ok := t.Roles.Role(roleID)
			if !ok || !role.IsUnique {
				continue
			}
			if holders := t.activeHolders(roleID, memberID); len(holders) > 0 {
				return Member{}, nil, nil, &UniqueRoleConflictError{RoleID: roleID, RoleName: role.Name, HolderID: holders[0]}
			}
		}
	}

	prev := m.Status
	m.Status = next
	m.UpdatedAt = now
	switch next {
	case StatusInactive:
		left := now
		m.LeftAt = &left
	case StatusActive:
		m.LeftAt = nil
	}
	t.putMember(m)

	var warnings []MandatoryRoleWarning
	if prev == StatusActive {
		warnings = t.vacatedMandatoryRoles(m.AssignedRoles)
	}

	out, _ := t.Member(memberID)
	return out, warnings, []Event{{
		Type:       EventMemberStatusChanged,
		MemberID:   memberID,
		FromStatus: prev,
		ToStatus:   next,
	}}, nil
}

// vacatedMandatoryRoles returns a warning for each mandatory role among
// roleIDs that no active member holds anymore.
func (t *Tenant) vacatedMandatoryRoles(roleIDs []string) []MandatoryRoleWarning {
	var warnings []MandatoryRoleWarning
	for _, id := range roleIDs {
		role, ok := t.Roles.Role(id)
		if !ok || !role.IsMandatory {
			continue
		}
		if len(t.activeHolders(id, "")) == 0 {
			warnings = append(warnings, MandatoryRoleWarning{RoleID: role.ID, RoleName: role.Name})
		}
	}
	return warnings
}
