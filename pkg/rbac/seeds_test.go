package rbac_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/validator"
)

const seedDoc = `
roles:
  - id: tresorier
    name: Trésorier
    permissions: [view_finances, manage_finances]
    is_unique: true
    is_mandatory: true
    color: "#059669"
  - id: benevole
    name: Bénévole
    permissions: [view_events]
    can_be_renamed: true
`

func TestLoadRoleSeedsYAML(t *testing.T) {
	t.Parallel()

	seeds, err := rbac.LoadRoleSeedsYAML(strings.NewReader(seedDoc))
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "tresorier", seeds[0].ID)
	assert.Equal(t, []permission.ID{permission.ViewFinances, permission.ManageFinances}, seeds[0].Permissions)
	assert.True(t, seeds[0].IsMandatory)
	assert.True(t, seeds[1].CanBeRenamed)

	engine := rbac.New(rbac.NewMemoryStore())
	tenant, err := engine.Bootstrap(context.Background(), rbac.TenantSeed{
		AssociationID: assoID,
		Roles:         seeds,
		Admin:         rbac.MemberInput{ID: "admin", UserID: "u-admin"},
	})
	require.NoError(t, err)
	assert.Len(t, tenant.Roles.Roles, 2)
}

func TestLoadRoleSeedsYAMLErrors(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"malformed":  "roles: [\n",
		"missing id": "roles:\n  - name: Sans id\n",
		"duplicate":  "roles:\n  - id: a\n    name: A\n  - id: a\n    name: B\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := rbac.LoadRoleSeedsYAML(strings.NewReader(doc))
			assert.ErrorIs(t, err, rbac.ErrFailedToParseRoles)
		})
	}
}

func TestBootstrapRejectsInvalidSeeds(t *testing.T) {
	t.Parallel()
	engine := rbac.New(rbac.NewMemoryStore())

	_, err := engine.Bootstrap(context.Background(), rbac.TenantSeed{
		AssociationID: assoID,
		Roles: []rbac.RoleSeed{
			{ID: "x", RoleInput: rbac.RoleInput{Name: "X", Permissions: []permission.ID{"ghost"}}},
		},
		Admin: rbac.MemberInput{ID: "admin", UserID: "u-admin"},
	})
	require.True(t, validator.IsValidationError(err))

	_, err = engine.Tenant(context.Background(), assoID)
	require.ErrorIs(t, err, rbac.ErrNotFound)
}
