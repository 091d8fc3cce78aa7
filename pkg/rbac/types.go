package rbac

import (
	"slices"
	"strings"
	"time"

	"github.com/assokit/assokit/pkg/permission"
)

// MemberStatus is the lifecycle state of a membership.
type MemberStatus string

const (
	StatusPending   MemberStatus = "pending"
	StatusActive    MemberStatus = "active"
	StatusSuspended MemberStatus = "suspended"
	StatusInactive  MemberStatus = "inactive"
)

// Role is a named bundle of permissions.
type Role struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Permissions  []permission.ID `json:"permissions"`
	IsUnique     bool            `json:"is_unique"`
	IsMandatory  bool            `json:"is_mandatory"`
	CanBeRenamed bool            `json:"can_be_renamed"`
	Color        string          `json:"color,omitempty"`
	Icon         string          `json:"icon,omitempty"`
}

func (r Role) clone() Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

// RoleInput is the payload of CreateRole and UpdateRole.
type RoleInput struct {
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description,omitempty" yaml:"description"`
	Permissions  []permission.ID `json:"permissions" yaml:"permissions"`
	IsUnique     bool            `json:"is_unique" yaml:"is_unique"`
	IsMandatory  bool            `json:"is_mandatory" yaml:"is_mandatory"`
	CanBeRenamed bool            `json:"can_be_renamed" yaml:"can_be_renamed"`
	Color        string          `json:"color,omitempty" yaml:"color"`
	Icon         string          `json:"icon,omitempty" yaml:"icon"`
}

func (in RoleInput) toRole(id string) Role {
	return Role{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Permissions:  dedupe(in.Permissions),
		IsUnique:     in.IsUnique,
		IsMandatory:  in.IsMandatory,
		CanBeRenamed: in.CanBeRenamed,
		Color:        in.Color,
		Icon:         in.Icon,
	}
}

// RolesConfiguration is the per-association role catalog.
// Version is the optimistic-concurrency token; it increases on every committed mutation.
type RolesConfiguration struct {
	Version              int64               `json:"version"`
	Roles                []Role              `json:"roles"`
	AvailablePermissions *permission.Catalog `json:"-"`
}

// Role looks up a role by id.
func (c RolesConfiguration) Role(id string) (Role, bool) {
	for _, r := range c.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

func (c RolesConfiguration) clone() RolesConfiguration {
	roles := make([]Role, len(c.Roles))
	for i, r := range c.Roles {
		roles[i] = r.clone()
	}
	c.Roles = roles
	return c
}

// CustomPermissions are per-member overrides applied on top of role permissions.
// An id is never in both sets.
type CustomPermissions struct {
	Granted []permission.ID `json:"granted"`
	Revoked []permission.ID `json:"revoked"`
}

func (cp CustomPermissions) clone() CustomPermissions {
	return CustomPermissions{
		Granted: slices.Clone(cp.Granted),
		Revoked: slices.Clone(cp.Revoked),
	}
}

// Member is a user's membership in one association.
//
// IsAdmin is derived from Tenant.AdminMemberID when the member is read.
// Setting it has no effect on stored state; use TransferAdmin.
type Member struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	AssociationID     string            `json:"association_id"`
	SectionID         *string           `json:"section_id,omitempty"`
	IsAdmin           bool              `json:"is_admin"`
	AssignedRoles     []string          `json:"assigned_roles"`
	CustomPermissions CustomPermissions `json:"custom_permissions"`
	MemberType        string            `json:"member_type,omitempty"`
	Status            MemberStatus      `json:"status"`
	JoinedAt          time.Time         `json:"joined_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	LeftAt            *time.Time        `json:"left_at,omitempty"`
}

// HasRole reports whether roleID is assigned to the member.
func (m Member) HasRole(roleID string) bool {
	return slices.Contains(m.AssignedRoles, roleID)
}

// Active reports whether the member counts as a holder for unique and mandatory roles.
func (m Member) Active() bool {
	return m.Status == StatusActive
}

func (m Member) clone() Member {
	m.AssignedRoles = slices.Clone(m.AssignedRoles)
	m.CustomPermissions = m.CustomPermissions.clone()
	if m.SectionID != nil {
		s := *m.SectionID
		m.SectionID = &s
	}
	if m.LeftAt != nil {
		t := *m.LeftAt
		m.LeftAt = &t
	}
	return m
}

// MemberInput registers a new member.
type MemberInput struct {
	// ID is generated when empty.
	ID                string            `json:"id,omitempty"`
	UserID            string            `json:"user_id"`
	SectionID         *string           `json:"section_id,omitempty"`
	MemberType        string            `json:"member_type,omitempty"`
	Status            MemberStatus      `json:"status,omitempty"`
	AssignedRoles     []string          `json:"assigned_roles,omitempty"`
	CustomPermissions CustomPermissions `json:"custom_permissions"`
}

func dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, 0, len(values))
	seen := make(map[T]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
