package associations

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

const assocColumns = `id, company_id, candidate_id, job_id, status, assigned_at, assigned_by, updated_at`

// Create inserts a new association. A duplicate candidate/job pair within
// the company maps to ErrAlreadyAssigned via the unique constraint.
func (r *PGRepo) Create(ctx context.Context, a CandidateJob) error {
	const query = `
INSERT INTO candidate_jobs (id, company_id, candidate_id, job_id, status, assigned_at, assigned_by, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $6)`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.CompanyID,
		a.CandidateID,
		a.JobID,
		a.Status,
		a.AssignedAt,
		a.AssignedBy,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyAssigned
	}
	return err
}

// GetByID returns an association owned by the company.
func (r *PGRepo) GetByID(ctx context.Context, companyID, id string) (CandidateJob, error) {
	query := `SELECT ` + assocColumns + ` FROM candidate_jobs WHERE id = $1 AND company_id = $2`
	a, err := scanAssociation(r.DB.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CandidateJob{}, ErrNotFound
		}
		return CandidateJob{}, err
	}
	return a, nil
}

// ListByCandidate returns the candidate's associations.
func (r *PGRepo) ListByCandidate(ctx context.Context, companyID, candidateID string) ([]CandidateJob, error) {
	query := `SELECT ` + assocColumns + ` FROM candidate_jobs WHERE company_id = $1 AND candidate_id = $2 ORDER BY assigned_at DESC`
	return r.list(ctx, query, companyID, candidateID)
}

// ListByJob returns the job's associations.
func (r *PGRepo) ListByJob(ctx context.Context, companyID, jobID string) ([]CandidateJob, error) {
	query := `SELECT ` + assocColumns + ` FROM candidate_jobs WHERE company_id = $1 AND job_id = $2 ORDER BY assigned_at DESC`
	return r.list(ctx, query, companyID, jobID)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]CandidateJob, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CandidateJob, 0)
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves the association to a new sub-status.
func (r *PGRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	const query = `UPDATE candidate_jobs SET status = $3, updated_at = $4 WHERE id = $1 AND company_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, companyID, status, time.Now().UTC())
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

// Delete removes the association outright.
func (r *PGRepo) Delete(ctx context.Context, companyID, id string) error {
	const query = `DELETE FROM candidate_jobs WHERE id = $1 AND company_id = $2`
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

func scanAssociation(row rowScanner) (CandidateJob, error) {
	var a CandidateJob
	err := row.Scan(
		&a.ID,
		&a.CompanyID,
		&a.CandidateID,
		&a.JobID,
		&a.Status,
		&a.AssignedAt,
		&a.AssignedBy,
		&a.UpdatedAt,
	)
	return a, err
}

// isUniqueViolation matches the Postgres unique_violation code without
// depending on driver error types here.
func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
