package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/assokit/assokit/pkg/pg"
	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/rbac"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pg.TxBeginner
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements rbac.Store, orgchart.Storage and audit.Storage.
type Store struct {
	db DB
}

// New panics if db is nil.
func New(db DB) *Store {
	if db == nil {
		panic("pgstore: DB is required")
	}
	return &Store{db: db}
}

var _ rbac.Store = (*Store)(nil)

const (
	selectTenantSQL = `
		SELECT admin_member_id, version, catalog, roles
		FROM rbac_tenants
		WHERE association_id = $1`

	selectMembersSQL = `
		SELECT id, user_id, section_id, member_type, status,
		       assigned_roles, granted, revoked, joined_at, updated_at, left_at
		FROM rbac_members
		WHERE association_id = $1`

	insertTenantSQL = `
		INSERT INTO rbac_tenants (association_id, admin_member_id, version, catalog, roles)
		VALUES ($1, $2, $3, $4, $5)`

	upsertMemberSQL = `
		INSERT INTO rbac_members (association_id, id, user_id, section_id, member_type, status,
		                          assigned_roles, granted, revoked, joined_at, updated_at, left_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (association_id, id) DO UPDATE SET
			user_id        = EXCLUDED.user_id,
			section_id     = EXCLUDED.section_id,
			member_type    = EXCLUDED.member_type,
			status         = EXCLUDED.status,
			assigned_roles = EXCLUDED.assigned_roles,
			granted        = EXCLUDED.granted,
			revoked        = EXCLUDED.revoked,
			updated_at     = EXCLUDED.updated_at,
			left_at        = EXCLUDED.left_at`

	tenantExistsSQL = `SELECT EXISTS (SELECT 1 FROM rbac_tenants WHERE association_id = $1)`
)

// LoadTenant reads the tenant row and its members in one snapshot.
func (s *Store) LoadTenant(ctx context.Context, associationID string) (*rbac.Tenant, error) {
	var tenant *rbac.Tenant
	err := pg.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var (
			adminID  string
			version  int64
			catalog  []byte
			rolesRaw []byte
		)
		err := tx.QueryRow(ctx, selectTenantSQL, associationID).Scan(&adminID, &version, &catalog, &rolesRaw)
		if pg.IsNotFoundError(err) {
			return &rbac.NotFoundError{Kind: rbac.KindAssociation, ID: associationID}
		}
		if err != nil {
			return errors.Join(ErrLoadFailed, err)
		}

		cat, roles, err := decodeConfiguration(catalog, rolesRaw)
		if err != nil {
			return err
		}

		t := rbac.NewTenant(associationID, cat)
		t.AdminMemberID = adminID
		t.Roles.Version = version
		t.Roles.Roles = roles

		rows, err := tx.Query(ctx, selectMembersSQL, associationID)
		if err != nil {
			return errors.Join(ErrLoadFailed, err)
		}
		defer rows.Close()

		for rows.Next() {
			var r memberRow
			if err := rows.Scan(&r.ID, &r.UserID, &r.SectionID, &r.MemberType, &r.Status,
				&r.AssignedRoles, &r.Granted, &r.Revoked, &r.JoinedAt, &r.UpdatedAt, &r.LeftAt); err != nil {
				return errors.Join(ErrLoadFailed, err)
			}
			m := r.member(associationID)
			t.Members[m.ID] = m
		}
		if err := rows.Err(); err != nil {
			return errors.Join(ErrLoadFailed, err)
		}

		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// CreateTenant inserts a new tenant with all of its members.
func (s *Store) CreateTenant(ctx context.Context, tenant *rbac.Tenant) error {
	catalog, roles, err := encodeConfiguration(tenant.Roles)
	if err != nil {
		return err
	}

	return pg.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertTenantSQL,
			tenant.AssociationID, tenant.AdminMemberID, tenant.Version(), catalog, roles)
		if pg.IsDuplicateKeyError(err) {
			return &rbac.InvalidStateError{Reason: fmt.Sprintf("association %q already exists", tenant.AssociationID)}
		}
		if err != nil {
			return errors.Join(ErrCommitFailed, err)
		}

		ids := make([]string, 0, len(tenant.Members))
		for id := range tenant.Members {
			ids = append(ids, id)
		}
		return upsertMembers(ctx, tx, tenant, ids)
	})
}

// Commit applies c if the stored version equals c.ExpectedVersion.
// A serialization failure of the transaction is reported as a conflict too.
func (s *Store) Commit(ctx context.Context, c rbac.Commit) error {
	t := c.Tenant
	err := pg.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		sql, args, err := updateTenantQuery(c)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return errors.Join(ErrCommitFailed, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, tenantExistsSQL, t.AssociationID).Scan(&exists); err != nil {
				return errors.Join(ErrCommitFailed, err)
			}
			if !exists {
				return &rbac.NotFoundError{Kind: rbac.KindAssociation, ID: t.AssociationID}
			}
			return rbac.ErrConcurrencyConflict
		}

		return upsertMembers(ctx, tx, t, c.Members)
	})
	if pg.IsSerializationFailure(err) || pg.IsDuplicateKeyError(err) {
		return errors.Join(rbac.ErrConcurrencyConflict, err)
	}
	return err
}

// updateTenantQuery builds the versioned update. Roles are written only
// when they changed.
func updateTenantQuery(c rbac.Commit) (string, []any, error) {
	t := c.Tenant
	if !c.RolesChanged {
		return `
		UPDATE rbac_tenants
		SET version = $3, admin_member_id = $4, updated_at = now()
		WHERE association_id = $1 AND version = $2`,
			[]any{t.AssociationID, c.ExpectedVersion, t.Version(), t.AdminMemberID}, nil
	}

	roles, err := json.Marshal(t.Roles.Roles)
	if err != nil {
		return "", nil, errors.Join(ErrEncodingFailed, err)
	}
	return `
		UPDATE rbac_tenants
		SET version = $3, admin_member_id = $4, roles = $5, updated_at = now()
		WHERE association_id = $1 AND version = $2`,
		[]any{t.AssociationID, c.ExpectedVersion, t.Version(), t.AdminMemberID, roles}, nil
}

func upsertMembers(ctx context.Context, tx pgx.Tx, t *rbac.Tenant, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		m, ok := t.Members[id]
		if !ok {
			continue
		}
		r := newMemberRow(m)
		batch.Queue(upsertMemberSQL,
			t.AssociationID, r.ID, r.UserID, r.SectionID, r.MemberType, r.Status,
			r.AssignedRoles, r.Granted, r.Revoked, r.JoinedAt, r.UpdatedAt, r.LeftAt,
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return errors.Join(ErrCommitFailed, fmt.Errorf("member[%d]: %w", i, err))
		}
	}
	return nil
}

// memberRow is the column layout of rbac_members.
type memberRow struct {
	ID            string
	UserID        string
	SectionID     *string
	MemberType    string
	Status        string
	AssignedRoles []string
	Granted       []string
	Revoked       []string
	JoinedAt      time.Time
	UpdatedAt     time.Time
	LeftAt        *time.Time
}

func newMemberRow(m rbac.Member) memberRow {
	return memberRow{
		ID:            m.ID,
		UserID:        m.UserID,
		SectionID:     m.SectionID,
		MemberType:    m.MemberType,
		Status:        string(m.Status),
		AssignedRoles: nonNil(m.AssignedRoles),
		Granted:       idStrings(m.CustomPermissions.Granted),
		Revoked:       idStrings(m.CustomPermissions.Revoked),
		JoinedAt:      m.JoinedAt,
		UpdatedAt:     m.UpdatedAt,
		LeftAt:        m.LeftAt,
	}
}

func (r memberRow) member(associationID string) rbac.Member {
	m := rbac.Member{
		ID:            r.ID,
		UserID:        r.UserID,
		AssociationID: associationID,
		SectionID:     r.SectionID,
		MemberType:    r.MemberType,
		Status:        rbac.MemberStatus(r.Status),
		CustomPermissions: rbac.CustomPermissions{
			Granted: permission.IDs(r.Granted...),
			Revoked: permission.IDs(r.Revoked...),
		},
		JoinedAt:  r.JoinedAt,
		UpdatedAt: r.UpdatedAt,
		LeftAt:    r.LeftAt,
	}
	if len(r.AssignedRoles) > 0 {
		m.AssignedRoles = r.AssignedRoles
	}
	if len(r.Granted) == 0 {
		m.CustomPermissions.Granted = nil
	}
	if len(r.Revoked) == 0 {
		m.CustomPermissions.Revoked = nil
	}
	return m
}

func encodeConfiguration(cfg rbac.RolesConfiguration) (catalog, roles []byte, err error) {
	perms := []permission.Permission{}
	if cfg.AvailablePermissions != nil {
		perms = cfg.AvailablePermissions.All()
	}
	if catalog, err = json.Marshal(perms); err != nil {
		return nil, nil, errors.Join(ErrEncodingFailed, err)
	}
	rs := cfg.Roles
	if rs == nil {
		rs = []rbac.Role{}
	}
	if roles, err = json.Marshal(rs); err != nil {
		return nil, nil, errors.Join(ErrEncodingFailed, err)
	}
	return catalog, roles, nil
}

func decodeConfiguration(catalogRaw, rolesRaw []byte) (*permission.Catalog, []rbac.Role, error) {
	var perms []permission.Permission
	if err := json.Unmarshal(catalogRaw, &perms); err != nil {
		return nil, nil, errors.Join(ErrEncodingFailed, err)
	}
	catalog, err := permission.NewCatalog(perms...)
	if err != nil {
		return nil, nil, errors.Join(ErrEncodingFailed, err)
	}

	var roles []rbac.Role
	if err := json.Unmarshal(rolesRaw, &roles); err != nil {
		return nil, nil, errors.Join(ErrEncodingFailed, err)
	}
	return catalog, roles, nil
}

func idStrings(ids []permission.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
