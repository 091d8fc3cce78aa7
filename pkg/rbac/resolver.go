package rbac

import (
	"github.com/assokit/assokit/pkg/permission"
)

// EffectivePermissions computes the permissions member holds under cfg.
//
// The administrator receives the whole catalog. Everyone else gets the union
// of their roles' permissions plus explicit grants, minus explicit revokes.
// Revoke always wins over roles and grants. Role ids that no longer exist are
// skipped. The function never fails and never mutates its inputs.
func EffectivePermissions(member Member, cfg RolesConfiguration) PermissionSet {
	if member.IsAdmin {
		return NewPermissionSet(cfg.AvailablePermissions.IDs()...)
	}

	set := make(PermissionSet)
	for _, roleID := range member.AssignedRoles {
		role, ok := cfg.Role(roleID)
		if !ok {
			continue
		}
		for _, id := range role.Permissions {
			set[id] = struct{}{}
		}
	}

	for _, id := range member.CustomPermissions.Granted {
		set[id] = struct{}{}
	}
	for _, id := range member.CustomPermissions.Revoked {
		delete(set, id)
	}

	return set
}

// PermissionsByCategory groups set by catalog category, in catalog order.
// Ids missing from the catalog are dropped.
func PermissionsByCategory(set PermissionSet, catalog *permission.Catalog) map[permission.Category][]permission.ID {
	out := make(map[permission.Category][]permission.ID)
	for _, p := range catalog.All() {
		if set.Has(p.ID) {
			out[p.Category] = append(out[p.Category], p.ID)
		}
	}
	return out
}
