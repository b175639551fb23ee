package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sandra-backend/internal/associations"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
)

// PGStore implements Store on Postgres. Entity reads load only the fields
// the engine inspects; lifecycle commits rewrite only lifecycle columns, so
// the untouched profile fields never round-trip through the engine.
type PGStore struct {
	DB *sql.DB
}

// GetJob loads a job by id across companies.
func (s *PGStore) GetJob(ctx context.Context, id string) (jobs.Job, error) {
	const query = `
SELECT id, company_id, title, company, status, version
FROM jobs WHERE id = $1`

	var j jobs.Job
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Company, &j.Status, &j.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.Job{}, ErrNotFound
	}
	if err != nil {
		return jobs.Job{}, err
	}
	return j, nil
}

// GetCandidate loads a candidate by id across companies.
func (s *PGStore) GetCandidate(ctx context.Context, id string) (candidates.Candidate, error) {
	const query = `
SELECT id, company_id, name, surname, status, stage, version
FROM candidates WHERE id = $1`

	var c candidates.Candidate
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Surname, &c.Status, &c.Stage, &c.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return candidates.Candidate{}, ErrNotFound
	}
	if err != nil {
		return candidates.Candidate{}, err
	}
	return c, nil
}

// AssociationsByJob returns the job's associations within the company.
func (s *PGStore) AssociationsByJob(ctx context.Context, companyID, jobID string) ([]associations.CandidateJob, error) {
	const query = `
SELECT id, company_id, candidate_id, job_id, status, assigned_at, assigned_by, updated_at
FROM candidate_jobs WHERE company_id = $1 AND job_id = $2`
	return s.listAssociations(ctx, query, companyID, jobID)
}

// AssociationsByCandidate returns the candidate's associations within the
// company.
func (s *PGStore) AssociationsByCandidate(ctx context.Context, companyID, candidateID string) ([]associations.CandidateJob, error) {
	const query = `
SELECT id, company_id, candidate_id, job_id, status, assigned_at, assigned_by, updated_at
FROM candidate_jobs WHERE company_id = $1 AND candidate_id = $2`
	return s.listAssociations(ctx, query, companyID, candidateID)
}

func (s *PGStore) listAssociations(ctx context.Context, query string, args ...any) ([]associations.CandidateJob, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]associations.CandidateJob, 0)
	for rows.Next() {
		var a associations.CandidateJob
		err := rows.Scan(
			&a.ID, &a.CompanyID, &a.CandidateID, &a.JobID,
			&a.Status, &a.AssignedAt, &a.AssignedBy, &a.UpdatedAt,
		)
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

// Commit applies the batch in one transaction. Every entity write carries a
// version condition; a condition that matches no row aborts the transaction
// with ErrConflict and nothing lands.
func (s *PGStore) Commit(ctx context.Context, b Batch) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if b.JobUpdate != nil {
		if err := commitJobUpdate(ctx, tx, b.JobUpdate); err != nil {
			return err
		}
	}
	if b.CandidateUpdate != nil {
		if err := commitCandidateUpdate(ctx, tx, b.CandidateUpdate); err != nil {
			return err
		}
	}
	if b.JobDelete != nil {
		if err := commitDelete(ctx, tx, "jobs", b.JobDelete); err != nil {
			return err
		}
	}
	if b.CandidateDelete != nil {
		if err := commitDelete(ctx, tx, "candidates", b.CandidateDelete); err != nil {
			return err
		}
	}
	if err := commitAssociationDeletes(ctx, tx, b.CompanyID, b.AssociationDeletes); err != nil {
		return err
	}

	return tx.Commit()
}

func commitJobUpdate(ctx context.Context, tx *sql.Tx, u *JobUpdate) error {
	const query = `
UPDATE jobs SET
    status = $3, visibility = $4, active = $5,
    archived_at = $6, archived_by = $7, archived_by_name = $8, archive_reason = $9, archive_notes = $10,
    version = version + 1, updated_at = $11, updated_by = $12
WHERE id = $1 AND company_id = $2 AND version = $13`

	j := u.Job
	at, by, byName, reason, notes := archiveColumns(j.Archive)
	res, err := tx.ExecContext(ctx, query,
		j.ID, j.CompanyID, j.Status, j.Visibility, j.Active,
		at, by, byName, reason, notes,
		j.UpdatedAt, j.UpdatedBy, u.ExpectedVersion,
	)
	if err != nil {
		return err
	}
	return conflictOnNoRows(res)
}

func commitCandidateUpdate(ctx context.Context, tx *sql.Tx, u *CandidateUpdate) error {
	const query = `
UPDATE candidates SET
    status = $3, visibility = $4, active = $5, stage = $6,
    archived_at = $7, archived_by = $8, archived_by_name = $9, archive_reason = $10, archive_notes = $11,
    version = version + 1, updated_at = $12, updated_by = $13
WHERE id = $1 AND company_id = $2 AND version = $14`

	c := u.Candidate
	at, by, byName, reason, notes := candidateArchiveColumns(c.Archive)
	res, err := tx.ExecContext(ctx, query,
		c.ID, c.CompanyID, c.Status, c.Visibility, c.Active, c.Stage,
		at, by, byName, reason, notes,
		c.UpdatedAt, c.UpdatedBy, u.ExpectedVersion,
	)
	if err != nil {
		return err
	}
	return conflictOnNoRows(res)
}

func commitDelete(ctx context.Context, tx *sql.Tx, table string, d *EntityDelete) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE id = $1 AND company_id = $2 AND version = $3", table)
	res, err := tx.ExecContext(ctx, query, d.ID, d.CompanyID, d.ExpectedVersion)
	if err != nil {
		return err
	}
	return conflictOnNoRows(res)
}

func commitAssociationDeletes(ctx context.Context, tx *sql.Tx, companyID string, ids []string) error {
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)+1)
		args = append(args, companyID)
		for i, id := range chunk {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, id)
		}
		query := "DELETE FROM candidate_jobs WHERE company_id = $1 AND id IN (" +
			strings.Join(placeholders, ", ") + ")"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func archiveColumns(m *jobs.ArchiveMetadata) (at, by, byName, reason, notes any) {
	if m == nil {
		return nil, nil, nil, nil, nil
	}
	return m.ArchivedAt, m.ArchivedBy, m.ArchivedByName, m.Reason, m.Notes
}

func candidateArchiveColumns(m *candidates.ArchiveMetadata) (at, by, byName, reason, notes any) {
	if m == nil {
		return nil, nil, nil, nil, nil
	}
	return m.ArchivedAt, m.ArchivedBy, m.ArchivedByName, m.Reason, m.Notes
}

func conflictOnNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}
