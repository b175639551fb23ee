package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert appends one feed entry.
func (r *PGRepo) Insert(ctx context.Context, a Activity) error {
	const query = `
INSERT INTO activities (
    id, company_id, type, user_id, user_display_info, entity_type, entity_id,
    entity_info, description, metadata, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	userInfo, err := json.Marshal(a.User)
	if err != nil {
		return err
	}
	var entityInfo []byte
	if a.Entity != nil {
		if entityInfo, err = json.Marshal(a.Entity); err != nil {
			return err
		}
	}
	var metadata []byte
	if a.Metadata != nil {
		if metadata, err = json.Marshal(a.Metadata); err != nil {
			return err
		}
	}

	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.CompanyID,
		a.Type,
		a.UserID,
		userInfo,
		a.EntityType,
		a.EntityID,
		entityInfo,
		a.Description,
		metadata,
		a.CreatedAt,
	)
	return err
}

// List returns the company feed, newest first.
func (r *PGRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Activity, error) {
	query := `
SELECT id, company_id, type, user_id, user_display_info, entity_type, entity_id,
       entity_info, description, metadata, created_at
FROM activities WHERE company_id = $1`
	args := []any{companyID}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		var (
			a          Activity
			userInfo   []byte
			entityInfo []byte
			metadata   []byte
		)
		err := rows.Scan(
			&a.ID,
			&a.CompanyID,
			&a.Type,
			&a.UserID,
			&userInfo,
			&a.EntityType,
			&a.EntityID,
			&entityInfo,
			&a.Description,
			&metadata,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(userInfo) > 0 {
			if err := json.Unmarshal(userInfo, &a.User); err != nil {
				return nil, err
			}
		}
		if len(entityInfo) > 0 {
			a.Entity = &EntityInfo{}
			if err := json.Unmarshal(entityInfo, a.Entity); err != nil {
				return nil, err
			}
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
