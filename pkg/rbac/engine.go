package rbac

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/permission"
)

// Engine is the decision and mutation surface of the rbac package.
//
// Reads are served from an immutable per-tenant snapshot and never take a
// lock. Mutations run under the tenant lock, are applied to a copy, committed
// with optimistic versioning and then swapped in. A commit that loses the
// version race is recomputed once against freshly loaded state.
type Engine struct {
	store     Store
	locker    Locker
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *Metrics
	strict    bool
	now       func() time.Time
	newID     func() string

	snapshots sync.Map // association id -> *atomic.Pointer[Tenant]
	loads     singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker sets the per-tenant mutation lock. Defaults to a MemoryLocker.
func WithLocker(l Locker) Option {
	return func(e *Engine) {
		if l != nil {
			e.locker = l
		}
	}
}

// WithPublisher sets the destination of committed events.
func WithPublisher(p EventPublisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records mutation counters and durations in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithStrictMandatoryRoles makes mutations that leave a mandatory role
// without an active holder fail with MandatoryRoleViolationError instead of
// returning a warning.
func WithStrictMandatoryRoles() Option {
	return func(e *Engine) { e.strict = true }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the generator for role, member and event ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New creates an engine backed by store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		locker:    NewMemoryLocker(),
		publisher: nopPublisher{},
		logger:    slog.New(slog.DiscardHandler),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("rbac"))
	return e
}

// Tenant returns a copy of the current aggregate.
func (e *Engine) Tenant(ctx context.Context, associationID string) (*Tenant, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Invalidate drops the cached snapshot so the next read reloads from the store.
// Call it when another process committed a change to the tenant.
func (e *Engine) Invalidate(associationID string) {
	e.snapshots.Delete(associationID)
}

// InvalidateIfOlder drops the cached snapshot when it predates version and
// reports whether it did.
func (e *Engine) InvalidateIfOlder(associationID string, version int64) bool {
	p, ok := e.snapshots.Load(associationID)
	if !ok {
		return false
	}
	ptr := p.(*atomic.Pointer[Tenant])
	cur := ptr.Load()
	if cur == nil || cur.Version() >= version {
		return false
	}
	return ptr.CompareAndSwap(cur, nil)
}

// GetEffectivePermissions resolves the member's permission set.
func (e *Engine) GetEffectivePermissions(ctx context.Context, associationID, memberID string) (PermissionSet, error) {
	t, m, err := e.member(ctx, associationID, memberID)
	if err != nil {
		return nil, err
	}
	return EffectivePermissions(m, t.Roles), nil
}

func (e *Engine) HasPermission(ctx context.Context, associationID, memberID string, id permission.ID) (bool, error) {
	set, err := e.GetEffectivePermissions(ctx, associationID, memberID)
	if err != nil {
		return false, err
	}
	return set.Has(id), nil
}

// Can evaluates a capability for the member.
func (e *Engine) Can(ctx context.Context, associationID, memberID string, c Capability) (bool, error) {
	set, err := e.GetEffectivePermissions(ctx, associationID, memberID)
	if err != nil {
		return false, err
	}
	return c.Allows(set), nil
}

// PermissionsByCategory resolves the member's permissions grouped by category.
func (e *Engine) PermissionsByCategory(ctx context.Context, associationID, memberID string) (map[permission.Category][]permission.ID, error) {
	t, m, err := e.member(ctx, associationID, memberID)
	if err != nil {
		return nil, err
	}
	return PermissionsByCategory(EffectivePermissions(m, t.Roles), t.Roles.AvailablePermissions), nil
}

func (e *Engine) ListRoles(ctx context.Context, associationID string) ([]Role, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return nil, err
	}
	roles := make([]Role, len(t.Roles.Roles))
	for i, r := range t.Roles.Roles {
		roles[i] = r.clone()
	}
	return roles, nil
}

func (e *Engine) GetRole(ctx context.Context, associationID, roleID string) (Role, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return Role{}, err
	}
	role, ok := t.Roles.Role(roleID)
	if !ok {
		return Role{}, notFound(KindRole, roleID)
	}
	return role.clone(), nil
}

// CreateRole validates in and adds a role with a generated id.
func (e *Engine) CreateRole(ctx context.Context, associationID string, in RoleInput) (Role, error) {
	id := e.newID()
	var role Role
	err := e.mutate(ctx, associationID, "create_role", func(t *Tenant, _ time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		role, events, err = t.createRole(id, in)
		return events, err
	})
	return role, err
}

func (e *Engine) UpdateRole(ctx context.Context, associationID, roleID string, in RoleInput) (Role, error) {
	var role Role
	err := e.mutate(ctx, associationID, "update_role", func(t *Tenant, _ time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		role, events, err = t.updateRole(roleID, in)
		return events, err
	})
	return role, err
}

// DeleteRole removes the role and detaches it from every holder.
func (e *Engine) DeleteRole(ctx context.Context, associationID, roleID string) error {
	return e.mutate(ctx, associationID, "delete_role", func(t *Tenant, now time.Time) ([]Event, error) {
		return t.deleteRole(roleID, now)
	})
}

// AssignRoles replaces the member's roles with roleIDs. Roles not listed are
// removed; an empty list clears every role.
func (e *Engine) AssignRoles(ctx context.Context, associationID, memberID string, roleIDs []string) (Member, error) {
	var m Member
	err := e.mutate(ctx, associationID, "replace_assigned_roles", func(t *Tenant, now time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		m, events, err = t.replaceAssignedRoles(memberID, roleIDs, now)
		return events, err
	})
	return m, err
}

// RemoveRole removes one role from the member. The warnings list mandatory
// roles left without an active holder.
func (e *Engine) RemoveRole(ctx context.Context, associationID, memberID, roleID string) (Member, []MandatoryRoleWarning, error) {
	var (
		m        Member
		warnings []MandatoryRoleWarning
	)
	err := e.mutate(ctx, associationID, "remove_role", func(t *Tenant, now time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		m, warnings, events, err = t.removeRole(memberID, roleID, now)
		if err != nil {
			return nil, err
		}
		return events, e.enforceMandatory(warnings)
	})
	if err != nil {
		return Member{}, nil, err
	}
	e.logWarnings(ctx, associationID, warnings)
	return m, warnings, nil
}

func (e *Engine) GrantPermission(ctx context.Context, associationID, memberID string, id permission.ID) (Member, error) {
	return e.override(ctx, associationID, memberID, id, overrideGrant, "grant_permission")
}

func (e *Engine) RevokePermission(ctx context.Context, associationID, memberID string, id permission.ID) (Member, error) {
	return e.override(ctx, associationID, memberID, id, overrideRevoke, "revoke_permission")
}

// ClearPermissionOverride removes id from both the granted and revoked sets.
func (e *Engine) ClearPermissionOverride(ctx context.Context, associationID, memberID string, id permission.ID) (Member, error) {
	return e.override(ctx, associationID, memberID, id, overrideClear, "clear_permission_override")
}

func (e *Engine) override(ctx context.Context, associationID, memberID string, id permission.ID, mode overrideMode, op string) (Member, error) {
	var m Member
	err := e.mutate(ctx, associationID, op, func(t *Tenant, now time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		m, events, err = t.overridePermission(memberID, id, mode, now)
		return events, err
	})
	return m, err
}

// TransferAdmin moves the administrator designation in one commit.
func (e *Engine) TransferAdmin(ctx context.Context, associationID, fromMemberID, toMemberID string) error {
	return e.mutate(ctx, associationID, "transfer_admin", func(t *Tenant, _ time.Time) ([]Event, error) {
		return t.transferAdmin(fromMemberID, toMemberID)
	})
}

// AssignInitialAdmin designates the administrator of a tenant that has none.
func (e *Engine) AssignInitialAdmin(ctx context.Context, associationID, memberID string) error {
	return e.mutate(ctx, associationID, "assign_initial_admin", func(t *Tenant, _ time.Time) ([]Event, error) {
		return t.assignInitialAdmin(memberID)
	})
}

// AddMember registers a member. Status defaults to pending.
func (e *Engine) AddMember(ctx context.Context, associationID string, in MemberInput) (Member, error) {
	id := in.ID
	if id == "" {
		id = e.newID()
	}
	var m Member
	err := e.mutate(ctx, associationID, "add_member", func(t *Tenant, now time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		m, events, err = t.addMember(id, in, now)
		return events, err
	})
	return m, err
}

func (e *Engine) GetMember(ctx context.Context, associationID, memberID string) (Member, error) {
	_, m, err := e.member(ctx, associationID, memberID)
	return m, err
}

// ListMembers returns the members ordered by join date.
func (e *Engine) ListMembers(ctx context.Context, associationID string) ([]Member, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return nil, err
	}
	return t.MemberList(), nil
}

// MemberExists reports whether memberID belongs to the association.
func (e *Engine) MemberExists(ctx context.Context, associationID, memberID string) (bool, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return false, err
	}
	_, ok := t.Members[memberID]
	return ok, nil
}

// ChangeMemberStatus moves the member along its lifecycle. Leaving the active
// state may vacate mandatory roles, reported as warnings.
func (e *Engine) ChangeMemberStatus(ctx context.Context, associationID, memberID string, status MemberStatus) (Member, []MandatoryRoleWarning, error) {
	var (
		m        Member
		warnings []MandatoryRoleWarning
	)
	err := e.mutate(ctx, associationID, "change_member_status", func(t *Tenant, now time.Time) ([]Event, error) {
		var (
			events []Event
			err    error
		)
		m, warnings, events, err = t.changeMemberStatus(memberID, status, now)
		if err != nil {
			return nil, err
		}
		return events, e.enforceMandatory(warnings)
	})
	if err != nil {
		return Member{}, nil, err
	}
	e.logWarnings(ctx, associationID, warnings)
	return m, warnings, nil
}

// Completeness lists mandatory roles without an active holder.
func (e *Engine) Completeness(ctx context.Context, associationID string) (CompletenessReport, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return CompletenessReport{}, err
	}
	return t.Completeness(), nil
}

// Bootstrap creates a tenant with its catalog, roles and first administrator.
func (e *Engine) Bootstrap(ctx context.Context, seed TenantSeed) (*Tenant, error) {
	if seed.AssociationID == "" {
		return nil, invalidState("association id is required")
	}
	catalog := seed.Catalog
	if catalog == nil {
		catalog = permission.DefaultCatalog()
	}
	roles := seed.Roles
	if roles == nil {
		roles = DefaultRoles(catalog)
	}

	unlock, err := e.lock(ctx, seed.AssociationID)
	if err != nil {
		return nil, err
	}
	defer e.unlock(ctx, seed.AssociationID, unlock)

	t := NewTenant(seed.AssociationID, catalog)
	var events []Event
	for _, rs := range roles {
		_, evs, err := t.createRole(rs.ID, rs.RoleInput)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	admin := seed.Admin
	admin.Status = StatusActive
	adminID := admin.ID
	if adminID == "" {
		adminID = e.newID()
	}
	now := e.now()
	_, evs, err := t.addMember(adminID, admin, now)
	if err != nil {
		return nil, err
	}
	events = append(events, evs...)
	if evs, err = t.assignInitialAdmin(adminID); err != nil {
		return nil, err
	}
	events = append(events, evs...)

	t.Roles.Version = 1
	t.resetTracking()
	if err := e.store.CreateTenant(ctx, t); err != nil {
		return nil, err
	}
	e.setSnapshot(t)

	e.logger.InfoContext(ctx, "Tenant bootstrapped",
		logger.AssociationID(t.AssociationID),
		logger.MemberID(adminID),
		slog.Int("roles", len(t.Roles.Roles)),
	)
	e.publish(ctx, t, events, now)

	return t.Clone(), nil
}

func (e *Engine) member(ctx context.Context, associationID, memberID string) (*Tenant, Member, error) {
	t, err := e.snapshot(ctx, associationID)
	if err != nil {
		return nil, Member{}, err
	}
	m, ok := t.Member(memberID)
	if !ok {
		return nil, Member{}, notFound(KindMember, memberID)
	}
	return t, m, nil
}

func (e *Engine) enforceMandatory(warnings []MandatoryRoleWarning) error {
	if !e.strict || len(warnings) == 0 {
		return nil
	}
	return &MandatoryRoleViolationError{RoleID: warnings[0].RoleID, RoleName: warnings[0].RoleName}
}

func (e *Engine) logWarnings(ctx context.Context, associationID string, warnings []MandatoryRoleWarning) {
	for _, w := range warnings {
		e.logger.WarnContext(ctx, "Mandatory role has no active holder",
			logger.AssociationID(associationID),
			logger.RoleID(w.RoleID),
		)
	}
}

// mutation applies a change to a private copy of the tenant.
type mutation func(t *Tenant, now time.Time) ([]Event, error)

func (e *Engine) mutate(ctx context.Context, associationID, op string, fn mutation) (err error) {
	started := time.Now()
	defer func() { e.metrics.observeMutation(op, started, err) }()

	unlock, err := e.lock(ctx, associationID)
	if err != nil {
		return err
	}
	defer e.unlock(ctx, associationID, unlock)

	base, err := e.snapshot(ctx, associationID)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		next := base.clone()
		now := e.now()
		events, err := fn(next, now)
		if err != nil {
			return err
		}

		expected := base.Version()
		next.Roles.Version = expected + 1
		err = e.store.Commit(ctx, next.pendingCommit(expected))
		if err == nil {
			next.resetTracking()
			e.setSnapshot(next)
			e.logger.InfoContext(ctx, "Mutation committed",
				logger.AssociationID(associationID),
				logger.Operation(op),
				logger.Version(next.Version()),
			)
			e.publish(ctx, next, events, now)
			return nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) {
			return err
		}

		e.metrics.observeConflict(op)
		e.logger.WarnContext(ctx, "Commit lost version race",
			logger.AssociationID(associationID),
			logger.Operation(op),
			logger.Version(expected),
			logger.RetryCount(attempt),
		)
		if attempt > 0 {
			return ErrConcurrencyConflict
		}
		if base, err = e.fetch(ctx, associationID); err != nil {
			return err
		}
	}
}

func (e *Engine) lock(ctx context.Context, associationID string) (UnlockFunc, error) {
	unlock, err := e.locker.Lock(ctx, LockKey(associationID))
	if err != nil {
		return nil, errors.Join(ErrLockFailed, err)
	}
	return unlock, nil
}

func (e *Engine) unlock(ctx context.Context, associationID string, unlock UnlockFunc) {
	if err := unlock(context.WithoutCancel(ctx)); err != nil {
		e.logger.ErrorContext(ctx, "Failed to release tenant lock",
			logger.AssociationID(associationID),
			logger.Error(err),
		)
	}
}

func (e *Engine) publish(ctx context.Context, t *Tenant, events []Event, now time.Time) {
	actorID, _ := MemberIDFromContext(ctx)
	for _, ev := range events {
		ev.ID = e.newID()
		ev.AssociationID = t.AssociationID
		ev.Version = t.Version()
		ev.OccurredAt = now
		ev.ActorID = actorID

		if ev.Type == EventRoleDetached {
			e.logger.InfoContext(ctx, "Role detached from member",
				logger.AssociationID(ev.AssociationID),
				logger.RoleID(ev.RoleID),
				logger.MemberID(ev.MemberID),
			)
		}
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish rbac event",
				logger.AssociationID(ev.AssociationID),
				logger.EventType(string(ev.Type)),
				logger.Error(err),
			)
		}
	}
}

func (e *Engine) pointer(associationID string) *atomic.Pointer[Tenant] {
	p, _ := e.snapshots.LoadOrStore(associationID, new(atomic.Pointer[Tenant]))
	return p.(*atomic.Pointer[Tenant])
}

// setSnapshot publishes t unless a newer version is already visible.
func (e *Engine) setSnapshot(t *Tenant) {
	p := e.pointer(t.AssociationID)
	for {
		cur := p.Load()
		if cur != nil && cur.Version() > t.Version() {
			return
		}
		if p.CompareAndSwap(cur, t) {
			return
		}
	}
}

func (e *Engine) snapshot(ctx context.Context, associationID string) (*Tenant, error) {
	if p, ok := e.snapshots.Load(associationID); ok {
		if t := p.(*atomic.Pointer[Tenant]).Load(); t != nil {
			return t, nil
		}
	}
	return e.reload(ctx, associationID)
}

// reload coalesces concurrent loads of the same tenant.
func (e *Engine) reload(ctx context.Context, associationID string) (*Tenant, error) {
	v, err, _ := e.loads.Do(associationID, func() (any, error) {
		return e.fetch(ctx, associationID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tenant), nil
}

func (e *Engine) fetch(ctx context.Context, associationID string) (*Tenant, error) {
	t, err := e.store.LoadTenant(ctx, associationID)
	if err != nil {
		return nil, err
	}
	t.resetTracking()
	e.setSnapshot(t)
	return t, nil
}
