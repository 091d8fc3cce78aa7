package tenant_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/tenant"
)

func TestHeaderResolver(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(tenant.DefaultHeader, " asso-1 ")

	id, err := tenant.NewHeaderResolver("").Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "asso-1", id)

	id, err = tenant.NewHeaderResolver("X-Other").Resolve(req)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSubdomainResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		suffix string
		host   string
		want   string
	}{
		{"with suffix", ".assokit.fr", "rugby.assokit.fr", "rugby"},
		{"with port", ".assokit.fr", "rugby.assokit.fr:8080", "rugby"},
		{"base domain", ".assokit.fr", "assokit.fr", ""},
		{"other domain", ".assokit.fr", "rugby.example.com", ""},
		{"www prefix", ".assokit.fr", "www.chorale.assokit.fr", "chorale"},
		{"bare www", ".assokit.fr", "www.assokit.fr", ""},
		{"no suffix", "", "chorale.example.com", "chorale"},
		{"no suffix base", "", "example.com", ""},
		{"case folded", ".assokit.fr", "Rugby.Assokit.FR", "rugby"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			got, err := tenant.NewSubdomainResolver(tt.suffix).Resolve(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathResolver(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/associations/asso-9/roles/", nil)

	id, err := tenant.NewPathResolver(2).Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "asso-9", id)

	id, err = tenant.NewPathResolver(5).Resolve(req)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = tenant.NewPathResolver(0).Resolve(req)
	assert.ErrorIs(t, err, tenant.ErrInvalidIdentifier)
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := tenant.ResolverFunc(func(*http.Request) (string, error) { return "", boom })
	empty := tenant.ResolverFunc(func(*http.Request) (string, error) { return "", nil })
	found := tenant.ResolverFunc(func(*http.Request) (string, error) { return "asso-1", nil })
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := tenant.NewCompositeResolver(failing, empty, found).Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "asso-1", id)

	id, err = tenant.NewCompositeResolver(empty).Resolve(req)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = tenant.NewCompositeResolver(empty, failing).Resolve(req)
	assert.ErrorIs(t, err, boom)
}
