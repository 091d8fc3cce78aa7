package rbac

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/assokit/assokit/pkg/validator"
)

const (
	maxRoleNameLength        = 64
	maxRoleDescriptionLength = 500
	maxRoleIconLength        = 64
)

// validateRole checks in against the tenant. current is nil on create.
// Every violation is reported in one ValidationErrors value.
func (t *Tenant) validateRole(in RoleInput, current *Role) error {
	taken := make([]string, 0, len(t.Roles.Roles))
	for _, r := range t.Roles.Roles {
		if current != nil && r.ID == current.ID {
			continue
		}
		taken = append(taken, r.Name)
	}

	rules := []validator.Rule{
		validator.RequiredString("name", in.Name),
		validator.MaxLenString("name", in.Name, maxRoleNameLength),
		validator.UniqueFold("name", in.Name, taken),
		validator.MaxLenString("description", in.Description, maxRoleDescriptionLength),
		validator.MaxLenString("icon", in.Icon, maxRoleIconLength),
		validator.EachIn("permissions", in.Permissions, t.Roles.AvailablePermissions.Has),
		validator.When(in.Color != "", validator.ValidHexColor("color", in.Color)),
	}

	if current != nil {
		renamed := strings.TrimSpace(in.Name) != current.Name
		rules = append(rules, validator.Custom("name", current.CanBeRenamed || !renamed,
			fmt.Sprintf("role %q cannot be renamed", current.Name), "rbac.role_not_renamable"))

		if in.IsUnique {
			holders := t.activeHolders(current.ID, "")
			rules = append(rules, validator.Custom("is_unique", len(holders) <= 1,
				fmt.Sprintf("role is held by %d active members", len(holders)), "rbac.role_unique_multiple_holders"))
		}
	}

	return validator.Apply(rules...)
}

func (t *Tenant) createRole(id string, in RoleInput) (Role, []Event, error) {
	if strings.TrimSpace(id) == "" {
		return Role{}, nil, invalidState("role id is required")
	}
	if _, exists := t.Roles.Role(id); exists {
		return Role{}, nil, invalidState("role id %q already exists", id)
	}
	if err := t.validateRole(in, nil); err != nil {
		return Role{}, nil, err
	}

	role := in.toRole(id)
	t.Roles.Roles = append(t.Roles.Roles, role)
	t.rolesChanged = true

	return role.clone(), []Event{{Type: EventRoleCreated, RoleID: id}}, nil
}

func (t *Tenant) updateRole(id string, in RoleInput) (Role, []Event, error) {
	idx := slices.IndexFunc(t.Roles.Roles, func(r Role) bool { return r.ID == id })
	if idx < 0 {
		return Role{}, nil, notFound(KindRole, id)
	}

	current := t.Roles.Roles[idx]
	if err := t.validateRole(in, &current); err != nil {
		return Role{}, nil, err
	}

	role := in.toRole(id)
	// The rename lock is fixed at creation.
	role.CanBeRenamed = current.CanBeRenamed
	t.Roles.Roles[idx] = role
	t.rolesChanged = true

	return role.clone(), []Event{{Type: EventRoleUpdated, RoleID: id}}, nil
}

// deleteRole removes the role and detaches it from every holder, whatever
// their status. Mandatory roles with active holders are refused.
func (t *Tenant) deleteRole(id string, now time.Time) ([]Event, error) {
	idx := slices.IndexFunc(t.Roles.Roles, func(r Role) bool { return r.ID == id })
	if idx < 0 {
		return nil, notFound(KindRole, id)
	}

	role := t.Roles.Roles[idx]
	if role.IsMandatory {
		if holders := t.activeHolders(id, ""); len(holders) > 0 {
			return nil, &RoleInUseError{RoleID: id, Holders: holders}
		}
	}

	var events []Event
	for _, memberID := range t.sortedMemberIDs() {
		m := t.Members[memberID]
		if !m.HasRole(id) {
			continue
		}
		m.AssignedRoles = slices.DeleteFunc(slices.Clone(m.AssignedRoles), func(r string) bool { return r == id })
		m.UpdatedAt = now
		t.putMember(m)
		events = append(events, Event{Type: EventRoleDetached, RoleID: id, MemberID: memberID})
	}

	t.Roles.Roles = slices.Delete(t.Roles.Roles, idx, idx+1)
	t.rolesChanged = true

	return append(events, Event{Type: EventRoleDeleted, RoleID: id}), nil
}

func (t *Tenant) sortedMemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for id := range t.Members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
