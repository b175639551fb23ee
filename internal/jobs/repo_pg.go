package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `
id, company_id, COALESCE(team_id, ''), title, company, department, reference, location, type,
description, requirements, contact_name, contact_email, status, visibility, active,
archived_at, archived_by, archived_by_name, archive_reason, archive_notes,
version, created_at, created_by, updated_at, updated_by`

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (
    id, company_id, team_id, title, company, department, reference, location, type,
    description, requirements, contact_name, contact_email, status, visibility, active,
    version, created_at, created_by, updated_at, updated_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $18, $19)`

	requirements, err := json.Marshal(sliceOrEmpty(job.Requirements))
	if err != nil {
		return err
	}

	var teamID sql.NullString
	if job.TeamID != "" {
		teamID = sql.NullString{String: job.TeamID, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.CompanyID,
		teamID,
		job.Title,
		job.Company,
		job.Department,
		job.Reference,
		job.Location,
		job.Type,
		job.Description,
		requirements,
		job.ContactName,
		job.ContactEmail,
		job.Status,
		job.Visibility,
		job.Active,
		job.Version,
		job.CreatedAt,
		job.CreatedBy,
	)
	return err
}

// GetByID returns a job owned by the company.
func (r *PGRepo) GetByID(ctx context.Context, companyID, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND company_id = $2`
	row := r.DB.QueryRowContext(ctx, query, id, companyID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// List returns company jobs, newest first, optionally filtered by status.
func (r *PGRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1`
	args := []any{companyID}
	if filter.Status != "" {
		query += ` AND status = $2`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable job fields and bumps the version.
func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs SET
    title = $3, company = $4, department = $5, reference = $6, location = $7, type = $8,
    description = $9, requirements = $10, contact_name = $11, contact_email = $12,
    version = version + 1, updated_at = $13, updated_by = $14
WHERE id = $1 AND company_id = $2`

	requirements, err := json.Marshal(sliceOrEmpty(job.Requirements))
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.CompanyID,
		job.Title,
		job.Company,
		job.Department,
		job.Reference,
		job.Location,
		job.Type,
		job.Description,
		requirements,
		job.ContactName,
		job.ContactEmail,
		time.Now().UTC(),
		job.UpdatedBy,
	)
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

func scanJob(row rowScanner) (Job, error) {
	var (
		job            Job
		requirements   []byte
		archivedAt     sql.NullTime
		archivedBy     sql.NullString
		archivedByName sql.NullString
		archiveReason  sql.NullString
		archiveNotes   sql.NullString
	)

	err := row.Scan(
		&job.ID,
		&job.CompanyID,
		&job.TeamID,
		&job.Title,
		&job.Company,
		&job.Department,
		&job.Reference,
		&job.Location,
		&job.Type,
		&job.Description,
		&requirements,
		&job.ContactName,
		&job.ContactEmail,
		&job.Status,
		&job.Visibility,
		&job.Active,
		&archivedAt,
		&archivedBy,
		&archivedByName,
		&archiveReason,
		&archiveNotes,
		&job.Version,
		&job.CreatedAt,
		&job.CreatedBy,
		&job.UpdatedAt,
		&job.UpdatedBy,
	)
	if err != nil {
		return Job{}, err
	}

	if len(requirements) > 0 {
		if err := json.Unmarshal(requirements, &job.Requirements); err != nil {
			return Job{}, err
		}
	}

	if archivedAt.Valid {
		job.Archive = &ArchiveMetadata{
			ArchivedAt:     archivedAt.Time,
			ArchivedBy:     archivedBy.String,
			ArchivedByName: archivedByName.String,
			Reason:         archiveReason.String,
			Notes:          archiveNotes.String,
		}
	}

	return job, nil
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
