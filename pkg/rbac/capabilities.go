package rbac

import (
	"github.com/assokit/assokit/pkg/permission"
)

// Capability is a named boolean combination of permissions used by guards.
// All of allOf must be held, and at least one of anyOf when anyOf is set.
type Capability struct {
	Name  string
	allOf []permission.ID
	anyOf []permission.ID
}

// RequireAllOf builds a capability satisfied by holding every id.
func RequireAllOf(name string, ids ...permission.ID) Capability {
	return Capability{Name: name, allOf: ids}
}

// RequireAnyOf builds a capability satisfied by holding at least one id.
func RequireAnyOf(name string, ids ...permission.ID) Capability {
	return Capability{Name: name, anyOf: ids}
}

// Allows evaluates the capability against a resolved set.
func (c Capability) Allows(set PermissionSet) bool {
	if !set.HasAll(c.allOf...) {
		return false
	}
	if len(c.anyOf) > 0 && !set.HasAny(c.anyOf...) {
		return false
	}
	return true
}

// Permissions returns every id the capability refers to.
func (c Capability) Permissions() []permission.ID {
	out := make([]permission.ID, 0, len(c.allOf)+len(c.anyOf))
	out = append(out, c.allOf...)
	return append(out, c.anyOf...)
}

// Domain shortcuts. Call sites must use these instead of repeating the combinations.
var (
	CanViewFinances        = RequireAnyOf("view_finances", permission.ViewFinances, permission.ManageFinances)
	CanManageFinances      = RequireAllOf("manage_finances", permission.ManageFinances)
	CanValidateExpenses    = RequireAllOf("validate_expenses", permission.ViewFinances, permission.ValidateExpenses)
	CanValidateCotisations = RequireAllOf("validate_cotisations", permission.ViewFinances, permission.ValidateCotisations)
	CanViewMembers         = RequireAnyOf("view_members", permission.ViewMembers, permission.ManageMembers)
	CanManageMembers       = RequireAllOf("manage_members", permission.ManageMembers)
	CanManageRoles         = RequireAllOf("manage_roles", permission.ManageRoles)
	CanUploadDocuments     = RequireAllOf("upload_documents", permission.UploadDocuments)
	CanManageEvents        = RequireAllOf("manage_events", permission.ManageEvents)
)
