package orgchart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/assokit/assokit/pkg/validator"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// Manager is the CRUD surface for org-chart titles.
type Manager struct {
	storage Storage
	members MemberLookup
	now     func() time.Time
	newID   func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// NewManager panics if storage or members is nil.
func NewManager(storage Storage, members MemberLookup, opts ...Option) *Manager {
	if storage == nil {
		panic("orgchart: Storage is required")
	}
	if members == nil {
		panic("orgchart: MemberLookup is required")
	}
	m := &Manager{
		storage: storage,
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Create(ctx context.Context, associationID string, in Input) (CustomRole, error) {
	if associationID == "" {
		return CustomRole{}, ErrMissingTenantID
	}
	if err := m.validate(ctx, associationID, in); err != nil {
		return CustomRole{}, err
	}

	now := m.now()
	role := CustomRole{
		ID:            m.newID(),
		AssociationID: associationID,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		AssignedTo:    normalizeAssignee(in.AssignedTo),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.save(ctx, role); err != nil {
		return CustomRole{}, err
	}
	return role, nil
}

func (m *Manager) Get(ctx context.Context, associationID, id string) (CustomRole, error) {
	role, err := m.storage.GetCustomRole(ctx, associationID, id)
	if err != nil {
		return CustomRole{}, wrapStorage(err)
	}
	return role, nil
}

// List returns the association's titles ordered by name.
func (m *Manager) List(ctx context.Context, associationID string) ([]CustomRole, error) {
	roles, err := m.storage.ListCustomRoles(ctx, associationID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	return roles, nil
}

// Update replaces name, description and assignee of an existing title.
func (m *Manager) Update(ctx context.Context, associationID, id string, in Input) (CustomRole, error) {
	role, err := m.Get(ctx, associationID, id)
	if err != nil {
		return CustomRole{}, err
	}
	if err := m.validate(ctx, associationID, in); err != nil {
		return CustomRole{}, err
	}

	role.Name = strings.TrimSpace(in.Name)
	role.Description = strings.TrimSpace(in.Description)
	role.AssignedTo = normalizeAssignee(in.AssignedTo)
	role.UpdatedAt = m.now()
	if err := m.save(ctx, role); err != nil {
		return CustomRole{}, err
	}
	return role, nil
}

func (m *Manager) Delete(ctx context.Context, associationID, id string) error {
	if err := m.storage.DeleteCustomRole(ctx, associationID, id); err != nil {
		return wrapStorage(err)
	}
	return nil
}

// Assign gives the title to memberID, replacing any previous assignee.
func (m *Manager) Assign(ctx context.Context, associationID, id, memberID string) (CustomRole, error) {
	role, err := m.Get(ctx, associationID, id)
	if err != nil {
		return CustomRole{}, err
	}
	if err := m.checkMember(ctx, associationID, memberID); err != nil {
		return CustomRole{}, err
	}

	role.AssignedTo = &memberID
	role.UpdatedAt = m.now()
	if err := m.save(ctx, role); err != nil {
		return CustomRole{}, err
	}
	return role, nil
}

// Unassign leaves the title vacant. It is a no-op for a vacant title.
func (m *Manager) Unassign(ctx context.Context, associationID, id string) (CustomRole, error) {
	role, err := m.Get(ctx, associationID, id)
	if err != nil {
		return CustomRole{}, err
	}
	if role.AssignedTo == nil {
		return role, nil
	}

	role.AssignedTo = nil
	role.UpdatedAt = m.now()
	if err := m.save(ctx, role); err != nil {
		return CustomRole{}, err
	}
	return role, nil
}

func (m *Manager) validate(ctx context.Context, associationID string, in Input) error {
	if err := validator.Apply(
		validator.RequiredString("name", in.Name),
		validator.MaxLenString("name", in.Name, maxNameLength),
		validator.MaxLenString("description", in.Description, maxDescriptionLength),
	); err != nil {
		return err
	}
	if assignee := normalizeAssignee(in.AssignedTo); assignee != nil {
		return m.checkMember(ctx, associationID, *assignee)
	}
	return nil
}

func (m *Manager) checkMember(ctx context.Context, associationID, memberID string) error {
	if strings.TrimSpace(memberID) == "" {
		return ErrMemberNotFound
	}
	ok, err := m.members.MemberExists(ctx, associationID, memberID)
	if err != nil {
		return errors.Join(ErrMemberLookup, err)
	}
	if !ok {
		return ErrMemberNotFound
	}
	return nil
}

func (m *Manager) save(ctx context.Context, role CustomRole) error {
	if err := m.storage.SaveCustomRole(ctx, role); err != nil {
		return wrapStorage(err)
	}
	return nil
}

func normalizeAssignee(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

func wrapStorage(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return errors.Join(ErrStorageFailure, err)
}
