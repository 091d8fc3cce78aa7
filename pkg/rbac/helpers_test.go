package rbac_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/rbac"
)

const assoID = "asso-1"

var testNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

// sequence returns ids prefix-1, prefix-2, ...
func sequence(prefix string) func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("%s-%d", prefix, n.Add(1)) }
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []rbac.Event
}

func (r *recorder) Publish(_ context.Context, ev rbac.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []rbac.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]rbac.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// bootstrap creates assoID with the default bureau and admin "admin".
func bootstrap(t *testing.T, opts ...rbac.Option) *rbac.Engine {
	t.Helper()
	opts = append([]rbac.Option{
		rbac.WithClock(func() time.Time { return testNow }),
		rbac.WithIDGenerator(sequence("id")),
	}, opts...)
	engine := rbac.New(rbac.NewMemoryStore(), opts...)

	_, err := engine.Bootstrap(context.Background(), rbac.TenantSeed{
		AssociationID: assoID,
		Admin:         rbac.MemberInput{ID: "admin", UserID: "u-admin"},
	})
	require.NoError(t, err)
	return engine
}

func addActive(t *testing.T, engine *rbac.Engine, id string, roles ...string) rbac.Member {
	t.Helper()
	m, err := engine.AddMember(context.Background(), assoID, rbac.MemberInput{
		ID:            id,
		UserID:        "u-" + id,
		Status:        rbac.StatusActive,
		AssignedRoles: roles,
	})
	require.NoError(t, err)
	return m
}

func version(t *testing.T, engine *rbac.Engine) int64 {
	t.Helper()
	tenant, err := engine.Tenant(context.Background(), assoID)
	require.NoError(t, err)
	return tenant.Version()
}
