package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
)

func TestAssignRolesReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &recorder{}
	engine := bootstrap(t, rbac.WithPublisher(rec))
	addActive(t, engine, "alice", rbac.RoleMembre, rbac.RoleSecretaire)
	rec.reset()

	m, err := engine.AssignRoles(ctx, assoID, "alice", []string{rbac.RoleTresorier, " ", rbac.RoleTresorier})
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleTresorier}, m.AssignedRoles)
	assert.ElementsMatch(t, []rbac.EventType{rbac.EventRoleRemoved, rbac.EventRoleRemoved, rbac.EventRoleAssigned}, rec.types())

	m, err = engine.AssignRoles(ctx, assoID, "alice", nil)
	require.NoError(t, err)
	assert.Empty(t, m.AssignedRoles)
}

func TestAssignRolesUniqueConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)
	addActive(t, engine, "treso", rbac.RoleTresorier)
	addActive(t, engine, "alice", rbac.RoleMembre)
	before := version(t, engine)

	_, err := engine.AssignRoles(ctx, assoID, "alice", []string{rbac.RoleMembre, rbac.RoleSecretaire, rbac.RoleTresorier})
	require.ErrorIs(t, err, rbac.ErrUniqueRoleConflict)

	var conflict *rbac.UniqueRoleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, rbac.RoleTresorier, conflict.RoleID)
	assert.Equal(t, "treso", conflict.HolderID)

	m, err := engine.GetMember(ctx, assoID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleMembre}, m.AssignedRoles, "no partial assignment")
	assert.Equal(t, before, version(t, engine))

	// Re-assigning a unique role to its current holder is fine.
	_, err = engine.AssignRoles(ctx, assoID, "treso", []string{rbac.RoleTresorier, rbac.RoleMembre})
	require.NoError(t, err)
}

func TestAssignRolesUniqueIgnoresInactiveHolders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)
	addActive(t, engine, "old-treso", rbac.RoleTresorier)
	addActive(t, engine, "alice")
	_, _, err := engine.ChangeMemberStatus(ctx, assoID, "old-treso", rbac.StatusSuspended)
	require.NoError(t, err)

	_, err = engine.AssignRoles(ctx, assoID, "alice", []string{rbac.RoleTresorier})
	require.NoError(t, err)

	// The suspended holder cannot come back while alice holds the role.
	_, _, err = engine.ChangeMemberStatus(ctx, assoID, "old-treso", rbac.StatusActive)
	require.ErrorIs(t, err, rbac.ErrUniqueRoleConflict)
}

func TestAssignRolesUnknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)
	addActive(t, engine, "alice")

	_, err := engine.AssignRoles(ctx, assoID, "alice", []string{"ghost"})
	require.ErrorIs(t, err, rbac.ErrNotFound)

	_, err = engine.AssignRoles(ctx, assoID, "nobody", []string{rbac.RoleMembre})
	var nf *rbac.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, rbac.KindMember, nf.Kind)
}

func TestRemoveRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("warns on vacated mandatory role", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "treso", rbac.RoleTresorier, rbac.RoleMembre)

		m, warnings, err := engine.RemoveRole(ctx, assoID, "treso", rbac.RoleTresorier)
		require.NoError(t, err)
		assert.Equal(t, []string{rbac.RoleMembre}, m.AssignedRoles)
		require.Len(t, warnings, 1)
		assert.Equal(t, rbac.RoleTresorier, warnings[0].RoleID)
		assert.Equal(t, "Trésorier", warnings[0].RoleName)
	})

	t.Run("no warning for optional role", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "alice", rbac.RoleMembre)

		_, warnings, err := engine.RemoveRole(ctx, assoID, "alice", rbac.RoleMembre)
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("strict mode refuses", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t, rbac.WithStrictMandatoryRoles())
		addActive(t, engine, "treso", rbac.RoleTresorier)
		before := version(t, engine)

		_, _, err := engine.RemoveRole(ctx, assoID, "treso", rbac.RoleTresorier)
		require.ErrorIs(t, err, rbac.ErrMandatoryRoleViolation)

		m, err := engine.GetMember(ctx, assoID, "treso")
		require.NoError(t, err)
		assert.Equal(t, []string{rbac.RoleTresorier}, m.AssignedRoles)
		assert.Equal(t, before, version(t, engine))
	})

	t.Run("role not held", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "alice")

		_, _, err := engine.RemoveRole(ctx, assoID, "alice", rbac.RoleMembre)
		var nf *rbac.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, rbac.KindRoleAssignment, nf.Kind)
	})
}

func TestPermissionOverrides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)
	addActive(t, engine, "treso", rbac.RoleTresorier)

	m, err := engine.GrantPermission(ctx, assoID, "treso", permission.ViewAuditLog)
	require.NoError(t, err)
	assert.Equal(t, []permission.ID{permission.ViewAuditLog}, m.CustomPermissions.Granted)

	// Revoking moves the id to the other set.
	m, err = engine.RevokePermission(ctx, assoID, "treso", permission.ViewAuditLog)
	require.NoError(t, err)
	assert.Empty(t, m.CustomPermissions.Granted)
	assert.Equal(t, []permission.ID{permission.ViewAuditLog}, m.CustomPermissions.Revoked)

	_, err = engine.RevokePermission(ctx, assoID, "treso", permission.ExportFinances)
	require.NoError(t, err)
	ok, err := engine.HasPermission(ctx, assoID, "treso", permission.ExportFinances)
	require.NoError(t, err)
	assert.False(t, ok, "revoke wins over the role")

	m, err = engine.ClearPermissionOverride(ctx, assoID, "treso", permission.ExportFinances)
	require.NoError(t, err)
	assert.Equal(t, []permission.ID{permission.ViewAuditLog}, m.CustomPermissions.Revoked)
	ok, err = engine.HasPermission(ctx, assoID, "treso", permission.ExportFinances)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = engine.GrantPermission(ctx, assoID, "treso", "launch_rockets")
	var nf *rbac.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, rbac.KindPermission, nf.Kind)
}

func TestAddMemberOverridesValidated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)

	_, err := engine.AddMember(ctx, assoID, rbac.MemberInput{
		ID:     "alice",
		UserID: "u-alice",
		CustomPermissions: rbac.CustomPermissions{
			Granted: []permission.ID{permission.ViewEvents},
			Revoked: []permission.ID{permission.ViewEvents},
		},
	})
	require.ErrorIs(t, err, rbac.ErrInvalidState)

	_, err = engine.AddMember(ctx, assoID, rbac.MemberInput{ID: "bob", UserID: "u-admin"})
	require.ErrorIs(t, err, rbac.ErrInvalidState, "one member per user")

	m, err := engine.AddMember(ctx, assoID, rbac.MemberInput{UserID: "u-carol"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, rbac.StatusPending, m.Status)
	assert.Equal(t, testNow, m.JoinedAt)
	assert.False(t, m.IsAdmin)
}
