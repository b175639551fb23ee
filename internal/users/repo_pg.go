package users

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

// Upsert inserts or refreshes the user row keyed by ID.
func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, company_id, email, name, surname, role, department, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (id) DO UPDATE SET
    email       = EXCLUDED.email,
    name        = EXCLUDED.name,
    surname     = EXCLUDED.surname,
    role        = EXCLUDED.role,
    department  = EXCLUDED.department,
    picture_url = EXCLUDED.picture_url,
    updated_at  = EXCLUDED.updated_at`

	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.CompanyID,
		user.Email,
		user.Name,
		user.Surname,
		user.Role,
		user.Department,
		user.PictureURL,
		now,
	)
	return err
}

// GetByID returns a user by ID.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, company_id, email, name, surname, role, department, picture_url, created_at, updated_at
FROM users
WHERE id = $1`

	var u User
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&u.ID,
		&u.CompanyID,
		&u.Email,
		&u.Name,
		&u.Surname,
		&u.Role,
		&u.Department,
		&u.PictureURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
