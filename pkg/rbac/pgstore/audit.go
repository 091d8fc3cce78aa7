package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/assokit/assokit/pkg/audit"
)

var (
	_ audit.Storage        = (*Store)(nil)
	_ audit.StorageCounter = (*Store)(nil)
)

// Store writes audit events in one batch.
func (s *Store) Store(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	const q = `
		INSERT INTO audit_events (id, association_id, actor_id, action, resource, resource_id,
		                          result, error, metadata, checksum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for _, e := range events {
		var meta []byte
		if len(e.Metadata) > 0 {
			raw, err := json.Marshal(e.Metadata)
			if err != nil {
				return errors.Join(ErrEncodingFailed, err)
			}
			meta = raw
		}
		batch.Queue(q, e.ID, e.AssociationID, e.ActorID, e.Action, e.Resource, e.ResourceID,
			string(e.Result), e.Error, meta, e.Checksum, e.CreatedAt)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range events {
		if _, err := br.Exec(); err != nil {
			return errors.Join(ErrCommitFailed, fmt.Errorf("audit event[%d]: %w", i, err))
		}
	}
	return nil
}

// Query returns matching events newest first.
func (s *Store) Query(ctx context.Context, c audit.Criteria) ([]audit.Event, error) {
	where, args := auditFilter(c)
	q := `SELECT id, association_id, actor_id, action, resource, resource_id,
	             result, error, metadata, checksum, created_at
	      FROM audit_events` + where + ` ORDER BY created_at DESC, id`
	if c.Limit > 0 {
		args = append(args, c.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if c.Offset > 0 {
		args = append(args, c.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var (
			e      audit.Event
			result string
			meta   []byte
		)
		if err := rows.Scan(&e.ID, &e.AssociationID, &e.ActorID, &e.Action, &e.Resource, &e.ResourceID,
			&result, &e.Error, &meta, &e.Checksum, &e.CreatedAt); err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		e.Result = audit.Result(result)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, errors.Join(ErrEncodingFailed, err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, c audit.Criteria) (int64, error) {
	where, args := auditFilter(c)
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM audit_events`+where, args...).Scan(&n); err != nil {
		return 0, errors.Join(ErrLoadFailed, err)
	}
	return n, nil
}

// auditFilter renders the WHERE clause for the non-zero fields of c.
func auditFilter(c audit.Criteria) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if c.AssociationID != "" {
		add("association_id = $%d", c.AssociationID)
	}
	if c.ActorID != "" {
		add("actor_id = $%d", c.ActorID)
	}
	if c.Action != "" {
		add("action = $%d", c.Action)
	}
	if c.Resource != "" {
		add("resource = $%d", c.Resource)
	}
	if c.ResourceID != "" {
		add("resource_id = $%d", c.ResourceID)
	}
	if c.Result != "" {
		add("result = $%d", string(c.Result))
	}
	if !c.StartTime.IsZero() {
		add("created_at >= $%d", c.StartTime)
	}
	if !c.EndTime.IsZero() {
		add("created_at < $%d", c.EndTime)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
