package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/rbac/httpapi"
	"github.com/assokit/assokit/pkg/tenant"
)

const assoID = "asso-1"

type fixture struct {
	engine *rbac.Engine
	router http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	engine := rbac.New(rbac.NewMemoryStore())
	_, err := engine.Bootstrap(ctx, rbac.TenantSeed{
		AssociationID: assoID,
		Admin:         rbac.MemberInput{ID: "admin", UserID: "u-admin"},
	})
	require.NoError(t, err)

	_, err = engine.AddMember(ctx, assoID, rbac.MemberInput{
		ID: "treso", UserID: "u-treso", Status: rbac.StatusActive,
		AssignedRoles: []string{rbac.RoleTresorier},
	})
	require.NoError(t, err)
	_, err = engine.AddMember(ctx, assoID, rbac.MemberInput{
		ID: "alice", UserID: "u-alice", Status: rbac.StatusActive,
		AssignedRoles: []string{rbac.RoleMembre},
	})
	require.NoError(t, err)

	chart := orgchart.NewManager(orgchart.NewMemoryStorage(), engine)

	r := chi.NewRouter()
	r.Use(tenant.Middleware(tenant.NewHeaderResolver(""), engine, tenant.WithCache(tenant.NewNoopCache())))
	r.Use(httpapi.MemberFromHeader(""))
	httpapi.New(engine, chart).MountRoutes(r)

	return fixture{engine: engine, router: r}
}

func (f fixture) do(t *testing.T, method, path, member string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(tenant.DefaultHeader, assoID)
	if member != "" {
		req.Header.Set(httpapi.DefaultMemberHeader, member)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestMyPermissions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/me/permissions", "treso", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Admin       bool                                    `json:"is_admin"`
		Permissions []permission.ID                         `json:"permissions"`
		ByCategory  map[permission.Category][]permission.ID `json:"by_category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Admin)
	assert.Contains(t, body.Permissions, permission.ValidateExpenses)
	assert.NotContains(t, body.Permissions, permission.ManageRoles)
	assert.Contains(t, body.ByCategory[permission.CategoryFinances], permission.ViewFinances)

	rec = f.do(t, http.MethodGet, "/me/permissions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardedRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		member string
		body   any
		want   int
	}{
		{"member cannot list members", http.MethodGet, "/members", "alice", nil, http.StatusForbidden},
		{"treasurer lists members", http.MethodGet, "/members", "treso", nil, http.StatusOK},
		{"treasurer cannot create roles", http.MethodPost, "/roles", "treso", rbac.RoleInput{Name: "Webmaster"}, http.StatusForbidden},
		{"admin creates roles", http.MethodPost, "/roles", "admin", rbac.RoleInput{Name: "Webmaster"}, http.StatusCreated},
		{"unknown member is denied", http.MethodGet, "/roles", "ghost", nil, http.StatusForbidden},
		{"anonymous is unauthorized", http.MethodGet, "/roles", "", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		rec := f.do(t, tt.method, tt.path, tt.member, tt.body)
		assert.Equal(t, tt.want, rec.Code, tt.name)
	}
}

func TestUnknownAssociation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set(tenant.DefaultHeader, "nope")
	req.Header.Set(httpapi.DefaultMemberHeader, "admin")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleValidationErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/roles", "admin", rbac.RoleInput{
		Name:        "trésorier",
		Permissions: permission.IDs("launch_rockets"),
		Color:       "blue",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Code)

	fields := make([]string, 0, len(body.Fields))
	for _, fe := range body.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "permissions", "color"}, fields)
}

func TestAssignUniqueRoleConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/members/alice/roles", "admin", map[string]any{
		"role_ids": []string{rbac.RoleMembre, rbac.RoleTresorier},
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Code   string `json:"code"`
		Holder string `json:"holder_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unique_role_conflict", body.Code)
	assert.Equal(t, "treso", body.Holder)

	member, err := f.engine.GetMember(context.Background(), assoID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleMembre}, member.AssignedRoles)
}

func TestRemoveMandatoryRoleWarns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/members/treso/roles/"+rbac.RoleTresorier, "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Warnings []struct {
			RoleID string `json:"role_id"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, rbac.RoleTresorier, body.Warnings[0].RoleID)
}

func TestOverridePermission(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/members/alice/permissions/"+string(permission.ViewMembers), "admin", map[string]string{"mode": "grant"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/members", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/members/alice/permissions/"+string(permission.ViewMembers), "admin", map[string]string{"mode": "revoke"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/members", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPut, "/members/alice/permissions/"+string(permission.ViewMembers), "admin", map[string]string{"mode": "toggle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/members/alice/permissions/launch_rockets", "admin", map[string]string{"mode": "grant"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransferAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/transfer", "treso", map[string]string{"to_member_id": "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code, "only the admin can hand over")

	rec = f.do(t, http.MethodPost, "/admin/transfer", "admin", map[string]string{"to_member_id": "alice"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	tenantState, err := f.engine.Tenant(context.Background(), assoID)
	require.NoError(t, err)
	assert.Equal(t, "alice", tenantState.AdminMemberID)

	rec = f.do(t, http.MethodPost, "/roles", "admin", rbac.RoleInput{Name: "Webmaster"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "former admin lost the bypass")
}

func TestCompletenessAndStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/completeness", "treso", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Complete bool `json:"complete"`
		Vacant   []struct {
			RoleID string `json:"role_id"`
		} `json:"vacant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Complete)
	assert.Len(t, report.Vacant, 2)

	rec = f.do(t, http.MethodPut, "/members/treso/status", "admin", map[string]string{"status": "suspended"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/members/admin/status", "admin", map[string]string{"status": "suspended"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrgChartRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/orgchart", "admin", orgchart.Input{Name: "Webmaster"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var title orgchart.CustomRole
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &title))

	rec = f.do(t, http.MethodPut, "/orgchart/"+title.ID+"/assignee", "admin", map[string]string{"member_id": "ghost"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPut, "/orgchart/"+title.ID+"/assignee", "admin", map[string]string{"member_id": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgchart/"+title.ID, "treso", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &title))
	require.NotNil(t, title.AssignedTo)
	assert.Equal(t, "alice", *title.AssignedTo)

	rec = f.do(t, http.MethodPost, "/orgchart", "alice", orgchart.Input{Name: "Archiviste"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/orgchart/"+title.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/orgchart/"+title.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
