package pgstore

import (
	"context"
	"errors"

	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/pg"
)

var _ orgchart.Storage = (*Store)(nil)

func (s *Store) SaveCustomRole(ctx context.Context, role orgchart.CustomRole) error {
	const q = `
		INSERT INTO orgchart_custom_roles (association_id, id, name, description, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (association_id, id) DO UPDATE SET
			name        = EXCLUDED.name,
			description = EXCLUDED.description,
			assigned_to = EXCLUDED.assigned_to,
			updated_at  = EXCLUDED.updated_at`

	_, err := s.db.Exec(ctx, q, role.AssociationID, role.ID, role.Name, role.Description,
		role.AssignedTo, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return errors.Join(ErrCommitFailed, err)
	}
	return nil
}

func (s *Store) GetCustomRole(ctx context.Context, associationID, id string) (orgchart.CustomRole, error) {
	const q = `
		SELECT name, description, assigned_to, created_at, updated_at
		FROM orgchart_custom_roles
		WHERE association_id = $1 AND id = $2`

	role := orgchart.CustomRole{ID: id, AssociationID: associationID}
	err := s.db.QueryRow(ctx, q, associationID, id).
		Scan(&role.Name, &role.Description, &role.AssignedTo, &role.CreatedAt, &role.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return orgchart.CustomRole{}, orgchart.ErrNotFound
	}
	if err != nil {
		return orgchart.CustomRole{}, errors.Join(ErrLoadFailed, err)
	}
	return role, nil
}

func (s *Store) ListCustomRoles(ctx context.Context, associationID string) ([]orgchart.CustomRole, error) {
	const q = `
		SELECT id, name, description, assigned_to, created_at, updated_at
		FROM orgchart_custom_roles
		WHERE association_id = $1
		ORDER BY name, id`

	rows, err := s.db.Query(ctx, q, associationID)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	defer rows.Close()

	var out []orgchart.CustomRole
	for rows.Next() {
		role := orgchart.CustomRole{AssociationID: associationID}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.AssignedTo,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return out, nil
}

func (s *Store) DeleteCustomRole(ctx context.Context, associationID, id string) error {
	const q = `DELETE FROM orgchart_custom_roles WHERE association_id = $1 AND id = $2`

	tag, err := s.db.Exec(ctx, q, associationID, id)
	if err != nil {
		return errors.Join(ErrCommitFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return orgchart.ErrNotFound
	}
	return nil
}
