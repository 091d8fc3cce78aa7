package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := tenant.IDFromContext(ctx)
	assert.False(t, ok)
	assert.Panics(t, func() { tenant.MustFromContext(ctx) })

	_, ok = tenant.LoggerExtractor()(ctx)
	assert.False(t, ok)

	ctx = tenant.WithAssociation(ctx, &tenant.Association{ID: "asso-1", Slug: "rugby"})
	id, ok := tenant.IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "asso-1", id)
	assert.Equal(t, "rugby", tenant.MustFromContext(ctx).Slug)

	attr, ok := tenant.LoggerExtractor()(ctx)
	require.True(t, ok)
	assert.Equal(t, "association_id", attr.Key)
	assert.Equal(t, "asso-1", attr.Value.String())
}
