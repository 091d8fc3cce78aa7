package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for rbac operations. Typed errors below match these with errors.Is.
var (
	// ErrNotFound is returned when a member, role, permission or association id is unknown.
	ErrNotFound = errors.New("rbac.not_found")

	// ErrInvalidState is returned when an operation does not apply to the current state.
	ErrInvalidState = errors.New("rbac.invalid_state")

	// ErrUniqueRoleConflict is returned when a unique role is already held by another active member.
	ErrUniqueRoleConflict = errors.New("rbac.unique_role_conflict")

	// ErrRoleInUse is returned when deleting a mandatory role that still has active holders.
	ErrRoleInUse = errors.New("rbac.role_in_use")

	// ErrMandatoryRoleViolation is returned in strict mode when a mandatory role would lose its last holder.
	ErrMandatoryRoleViolation = errors.New("rbac.mandatory_role_violation")

	// ErrConcurrencyConflict is returned when a commit raced with another writer.
	// The engine retries once before surfacing it; callers should ask the user to retry.
	ErrConcurrencyConflict = errors.New("rbac.concurrency_conflict")

	// ErrLockFailed is returned when the per-tenant mutation lock cannot be acquired.
	ErrLockFailed = errors.New("rbac.lock_failed")

	// ErrMemberNotInContext is returned when no member reference is stored in the context.
	ErrMemberNotInContext = errors.New("rbac.member_not_in_context")

	// ErrFailedToParseRoles is returned when a role seed document cannot be decoded.
	ErrFailedToParseRoles = errors.New("rbac.failed_to_parse_roles")
)

// Kinds reported by NotFoundError.
const (
	KindAssociation    = "association"
	KindMember         = "member"
	KindRole           = "role"
	KindPermission     = "permission"
	KindRoleAssignment = "role_assignment"
)

// NotFoundError names the kind and id of the missing entity.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rbac: %s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidStateError explains why an operation was refused.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "rbac: invalid state: " + e.Reason
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

func invalidState(format string, args ...any) error {
	return &InvalidStateError{Reason: fmt.Sprintf(format, args...)}
}

// UniqueRoleConflictError identifies the member currently holding a unique role.
type UniqueRoleConflictError struct {
	RoleID   string
	RoleName string
	HolderID string
}

func (e *UniqueRoleConflictError) Error() string {
	return fmt.Sprintf("rbac: role %q is unique and already held by member %q", e.RoleName, e.HolderID)
}

func (e *UniqueRoleConflictError) Is(target error) bool { return target == ErrUniqueRoleConflict }

// RoleInUseError lists the active holders blocking a deletion.
type RoleInUseError struct {
	RoleID  string
	Holders []string
}

func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("rbac: mandatory role %q is held by %s; reassign it first", e.RoleID, strings.Join(e.Holders, ", "))
}

func (e *RoleInUseError) Is(target error) bool { return target == ErrRoleInUse }

// MandatoryRoleViolationError is the blocking form of MandatoryRoleWarning.
type MandatoryRoleViolationError struct {
	RoleID   string
	RoleName string
}

func (e *MandatoryRoleViolationError) Error() string {
	return fmt.Sprintf("rbac: mandatory role %q would have no active holder", e.RoleName)
}

func (e *MandatoryRoleViolationError) Is(target error) bool { return target == ErrMandatoryRoleViolation }
