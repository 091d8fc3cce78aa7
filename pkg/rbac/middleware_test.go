package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/tenant"
)

type authorizerFunc func(ctx context.Context, associationID, memberID string) (rbac.PermissionSet, error)

func (f authorizerFunc) GetEffectivePermissions(ctx context.Context, associationID, memberID string) (rbac.PermissionSet, error) {
	return f(ctx, associationID, memberID)
}

func identified(r *http.Request, memberID string) *http.Request {
	ctx := tenant.WithAssociation(r.Context(), &tenant.Association{ID: assoID, Active: true})
	ctx = rbac.WithMember(ctx, memberID)
	return r.WithContext(ctx)
}

func TestGuard(t *testing.T) {
	t.Parallel()
	engine := bootstrap(t)
	addActive(t, engine, "treso", rbac.RoleTresorier)
	addActive(t, engine, "alice", rbac.RoleMembre)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guard := rbac.Guard{Authorizer: engine}

	tests := []struct {
		name   string
		mw     func(http.Handler) http.Handler
		member string
		want   int
	}{
		{name: "capability allowed", mw: guard.RequireCapability(rbac.CanValidateExpenses), member: "treso", want: http.StatusNoContent},
		{name: "capability denied", mw: guard.RequireCapability(rbac.CanValidateExpenses), member: "alice", want: http.StatusForbidden},
		{name: "admin bypass", mw: guard.RequirePermission(permission.ManageRoles), member: "admin", want: http.StatusNoContent},
		{name: "any of", mw: guard.RequireAny(permission.ManageEvents, permission.ViewEvents), member: "alice", want: http.StatusNoContent},
		{name: "all of", mw: guard.RequireAll(permission.ViewEvents, permission.ManageEvents), member: "alice", want: http.StatusForbidden},
		{name: "unknown member", mw: guard.RequirePermission(permission.ViewEvents), member: "ghost", want: http.StatusForbidden},
		{name: "no identity", mw: guard.RequirePermission(permission.ViewEvents), member: "", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.member != "" {
				req = identified(req, tt.member)
			}
			rec := httptest.NewRecorder()
			tt.mw(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGuardResolutionFailure(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	metrics := rbac.NewMetrics(reg)
	guard := rbac.Guard{
		Authorizer: authorizerFunc(func(context.Context, string, string) (rbac.PermissionSet, error) {
			return nil, errors.New("store down")
		}),
		Metrics: metrics,
	}

	called := false
	h := guard.RequirePermission(permission.ViewEvents)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, identified(httptest.NewRequest(http.MethodGet, "/", nil), "alice"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
	assert.Equal(t, 1.0, counterValue(t, metrics.DecisionsTotal, "error"))
}

func TestGuardCustomResolver(t *testing.T) {
	t.Parallel()
	engine := bootstrap(t)
	guard := rbac.Guard{
		Authorizer: engine,
		Resolve: func(r *http.Request) (string, string, bool) {
			return assoID, r.Header.Get("X-Member-ID"), r.Header.Get("X-Member-ID") != ""
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Member-ID", "admin")
	rec := httptest.NewRecorder()
	guard.RequireCapability(rbac.CanManageRoles)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMemberContext(t *testing.T) {
	t.Parallel()

	_, ok := rbac.MemberIDFromContext(context.Background())
	assert.False(t, ok)
	_, ok = rbac.MemberIDFromContext(rbac.WithMember(context.Background(), ""))
	assert.False(t, ok)

	id, ok := rbac.MemberIDFromContext(rbac.WithMember(context.Background(), "alice"))
	require.True(t, ok)
	assert.Equal(t, "alice", id)

	attr, ok := rbac.LoggerExtractor()(rbac.WithMember(context.Background(), "alice"))
	require.True(t, ok)
	assert.Equal(t, "member_id", attr.Key)
	assert.Equal(t, "alice", attr.Value.String())
}
