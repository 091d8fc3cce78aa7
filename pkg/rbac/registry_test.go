package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/validator"
)

func TestCreateRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &recorder{}
	engine := bootstrap(t, rbac.WithPublisher(rec))
	rec.reset()
	before := version(t, engine)

	role, err := engine.CreateRole(ctx, assoID, rbac.RoleInput{
		Name:        "  Responsable communication ",
		Permissions: []permission.ID{permission.ViewEvents, permission.ManageEvents, permission.ViewEvents},
		Color:       "#ff8800",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, role.ID)
	assert.Equal(t, "Responsable communication", role.Name)
	assert.Equal(t, []permission.ID{permission.ViewEvents, permission.ManageEvents}, role.Permissions)

	got, err := engine.GetRole(ctx, assoID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, role, got)
	assert.Equal(t, before+1, version(t, engine))
	assert.Equal(t, []rbac.EventType{rbac.EventRoleCreated}, rec.types())
}

func TestCreateRoleValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := bootstrap(t)
	before := version(t, engine)

	_, err := engine.CreateRole(ctx, assoID, rbac.RoleInput{
		Name:        "TRÉSORIER",
		Permissions: []permission.ID{permission.ViewFinances, "launch_rockets"},
		Color:       "orange",
	})
	require.Error(t, err)

	errs := validator.ExtractValidationErrors(err)
	require.NotNil(t, errs)
	assert.ElementsMatch(t, []string{"name", "permissions", "color"}, errs.Fields())
	assert.Equal(t, before, version(t, engine), "rejected mutation must not commit")

	_, err = engine.CreateRole(ctx, assoID, rbac.RoleInput{Name: "   "})
	errs = validator.ExtractValidationErrors(err)
	require.NotNil(t, errs)
	assert.True(t, errs.Has("name"))
}

func TestUpdateRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("renamable role", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		role, err := engine.UpdateRole(ctx, assoID, rbac.RoleMembre, rbac.RoleInput{
			Name:         "Adhérent",
			Permissions:  []permission.ID{permission.ViewDocuments},
			CanBeRenamed: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Adhérent", role.Name)
		assert.Equal(t, rbac.RoleMembre, role.ID)
	})

	t.Run("locked name", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		current, err := engine.GetRole(ctx, assoID, rbac.RoleTresorier)
		require.NoError(t, err)

		_, err = engine.UpdateRole(ctx, assoID, rbac.RoleTresorier, rbac.RoleInput{
			Name:        "Argentier",
			Permissions: current.Permissions,
			IsUnique:    true,
			IsMandatory: true,
		})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"rbac.role_not_renamable"}, errs.Keys("name"))

		// Same name with new permissions is accepted.
		role, err := engine.UpdateRole(ctx, assoID, rbac.RoleTresorier, rbac.RoleInput{
			Name:        current.Name,
			Permissions: []permission.ID{permission.ViewFinances},
			IsUnique:    true,
			IsMandatory: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []permission.ID{permission.ViewFinances}, role.Permissions)
	})

	t.Run("rename lock cannot be lifted", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		current, err := engine.GetRole(ctx, assoID, rbac.RolePresident)
		require.NoError(t, err)
		require.False(t, current.CanBeRenamed)

		role, err := engine.UpdateRole(ctx, assoID, rbac.RolePresident, rbac.RoleInput{
			Name:         current.Name,
			Permissions:  current.Permissions,
			IsUnique:     true,
			IsMandatory:  true,
			CanBeRenamed: true,
		})
		require.NoError(t, err)
		assert.False(t, role.CanBeRenamed)

		_, err = engine.UpdateRole(ctx, assoID, rbac.RolePresident, rbac.RoleInput{
			Name:         "Chef",
			Permissions:  current.Permissions,
			IsUnique:     true,
			IsMandatory:  true,
			CanBeRenamed: true,
		})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.Equal(t, []string{"rbac.role_not_renamable"}, errs.Keys("name"))

		got, err := engine.GetRole(ctx, assoID, rbac.RolePresident)
		require.NoError(t, err)
		assert.Equal(t, current.Name, got.Name)
		assert.False(t, got.CanBeRenamed)
	})

	t.Run("unique with several holders", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "alice", rbac.RoleMembre)
		addActive(t, engine, "bob", rbac.RoleMembre)

		_, err := engine.UpdateRole(ctx, assoID, rbac.RoleMembre, rbac.RoleInput{
			Name:         "Membre",
			Permissions:  []permission.ID{permission.ViewDocuments},
			IsUnique:     true,
			CanBeRenamed: true,
		})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.True(t, errs.Has("is_unique"))
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		_, err := engine.UpdateRole(ctx, assoID, "ghost", rbac.RoleInput{Name: "Ghost"})
		require.ErrorIs(t, err, rbac.ErrNotFound)

		var nf *rbac.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, rbac.KindRole, nf.Kind)
	})
}

func TestDeleteRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mandatory role with holder", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "treso", rbac.RoleTresorier)

		err := engine.DeleteRole(ctx, assoID, rbac.RoleTresorier)
		require.ErrorIs(t, err, rbac.ErrRoleInUse)

		var inUse *rbac.RoleInUseError
		require.True(t, errors.As(err, &inUse))
		assert.Equal(t, []string{"treso"}, inUse.Holders)

		_, err = engine.GetRole(ctx, assoID, rbac.RoleTresorier)
		require.NoError(t, err)
	})

	t.Run("detaches holders", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		engine := bootstrap(t, rbac.WithPublisher(rec))
		addActive(t, engine, "alice", rbac.RoleMembre)
		addActive(t, engine, "bob", rbac.RoleMembre)
		rec.reset()

		for _, id := range []string{"alice", "bob"} {
			set, err := engine.GetEffectivePermissions(ctx, assoID, id)
			require.NoError(t, err)
			assert.True(t, set.HasAll(permission.ViewDocuments, permission.ViewEvents))
		}

		require.NoError(t, engine.DeleteRole(ctx, assoID, rbac.RoleMembre))

		for _, id := range []string{"alice", "bob"} {
			m, err := engine.GetMember(ctx, assoID, id)
			require.NoError(t, err)
			assert.Empty(t, m.AssignedRoles)

			set, err := engine.GetEffectivePermissions(ctx, assoID, id)
			require.NoError(t, err)
			assert.False(t, set.Has(permission.ViewDocuments))
			assert.False(t, set.Has(permission.ViewEvents))
			assert.Zero(t, set.Len())
		}
		_, err := engine.GetRole(ctx, assoID, rbac.RoleMembre)
		require.ErrorIs(t, err, rbac.ErrNotFound)
		assert.Equal(t, []rbac.EventType{rbac.EventRoleDetached, rbac.EventRoleDetached, rbac.EventRoleDeleted}, rec.types())
	})

	t.Run("mandatory role held only by inactive member", func(t *testing.T) {
		t.Parallel()
		engine := bootstrap(t)
		addActive(t, engine, "treso", rbac.RoleTresorier)
		_, _, err := engine.ChangeMemberStatus(ctx, assoID, "treso", rbac.StatusInactive)
		require.NoError(t, err)

		require.NoError(t, engine.DeleteRole(ctx, assoID, rbac.RoleTresorier))

		m, err := engine.GetMember(ctx, assoID, "treso")
		require.NoError(t, err)
		assert.Empty(t, m.AssignedRoles)
	})
}

func TestListRolesKeepsOrder(t *testing.T) {
	t.Parallel()
	engine := bootstrap(t)

	roles, err := engine.ListRoles(context.Background(), assoID)
	require.NoError(t, err)

	ids := make([]string, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{rbac.RolePresident, rbac.RoleTresorier, rbac.RoleSecretaire, rbac.RoleMembre}, ids)
}
