package notes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const noteColumns = `
id, company_id, entity_type, entity_id, content, author_id, author_name,
created_at, updated_at`

// Create inserts a new note.
func (r *PGRepo) Create(ctx context.Context, n Note) error {
	const query = `
INSERT INTO notes (
    id, company_id, entity_type, entity_id, content, author_id, author_name,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		n.ID,
		n.CompanyID,
		n.EntityType,
		n.EntityID,
		n.Content,
		n.AuthorID,
		n.AuthorName,
		n.CreatedAt,
	)
	return err
}

// GetByID returns a note owned by the company.
func (r *PGRepo) GetByID(ctx context.Context, companyID, id string) (Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND company_id = $2`
	n, err := scanNote(r.DB.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// List returns the entity's notes, newest first.
func (r *PGRepo) List(ctx context.Context, companyID, entityType, entityID string) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, companyID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the note content.
func (r *PGRepo) Update(ctx context.Context, n Note) error {
	const query = `
UPDATE notes SET content = $3, updated_at = $4
WHERE id = $1 AND company_id = $2`

	res, err := r.DB.ExecContext(ctx, query, n.ID, n.CompanyID, n.Content, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the note.
func (r *PGRepo) Delete(ctx context.Context, companyID, id string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND company_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var n Note
	err := row.Scan(
		&n.ID,
		&n.CompanyID,
		&n.EntityType,
		&n.EntityID,
		&n.Content,
		&n.AuthorID,
		&n.AuthorName,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return Note{}, err
	}
	return n, nil
}
