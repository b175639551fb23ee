package meetings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const meetingColumns = `
id, company_id, title, type, COALESCE(candidate_id, ''), COALESCE(job_id, ''),
starts_at, ends_at, location, meeting_link, notes, attendees, created_by, created_at, updated_at`

// Create inserts a new meeting.
func (r *PGRepo) Create(ctx context.Context, m Meeting) error {
	const query = `
INSERT INTO meetings (
    id, company_id, title, type, candidate_id, job_id, starts_at, ends_at,
    location, meeting_link, notes, attendees, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`

	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		m.ID,
		m.CompanyID,
		m.Title,
		m.Type,
		nullable(m.CandidateID),
		nullable(m.JobID),
		m.StartsAt,
		m.EndsAt,
		m.Location,
		m.MeetingLink,
		m.Notes,
		attendees,
		m.CreatedBy,
		m.CreatedAt,
	)
	return err
}

// GetByID returns a meeting owned by the company.
func (r *PGRepo) GetByID(ctx context.Context, companyID, id string) (Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1 AND company_id = $2`
	m, err := scanMeeting(r.DB.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Meeting{}, ErrNotFound
		}
		return Meeting{}, err
	}
	return m, nil
}

// List returns company meetings ordered by start time.
func (r *PGRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE company_id = $1`
	args := []any{companyID}
	if filter.CandidateID != "" {
		args = append(args, filter.CandidateID)
		query += fmt.Sprintf(" AND candidate_id = $%d", len(args))
	}
	if filter.JobID != "" {
		args = append(args, filter.JobID)
		query += fmt.Sprintf(" AND job_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND starts_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND starts_at < $%d", len(args))
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the meeting fields.
func (r *PGRepo) Update(ctx context.Context, m Meeting) error {
	const query = `
UPDATE meetings SET
    title = $3, type = $4, candidate_id = $5, job_id = $6, starts_at = $7, ends_at = $8,
    location = $9, meeting_link = $10, notes = $11, attendees = $12, updated_at = $13
WHERE id = $1 AND company_id = $2`

	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		m.ID,
		m.CompanyID,
		m.Title,
		m.Type,
		nullable(m.CandidateID),
		nullable(m.JobID),
		m.StartsAt,
		m.EndsAt,
		m.Location,
		m.MeetingLink,
		m.Notes,
		attendees,
		time.Now().UTC(),
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

// Delete removes the meeting.
func (r *PGRepo) Delete(ctx context.Context, companyID, id string) error {
	const query = `DELETE FROM meetings WHERE id = $1 AND company_id = $2`
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

func scanMeeting(row rowScanner) (Meeting, error) {
	var (
		m         Meeting
		attendees []byte
	)
	err := row.Scan(
		&m.ID,
		&m.CompanyID,
		&m.Title,
		&m.Type,
		&m.CandidateID,
		&m.JobID,
		&m.StartsAt,
		&m.EndsAt,
		&m.Location,
		&m.MeetingLink,
		&m.Notes,
		&attendees,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return Meeting{}, err
	}
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
			return Meeting{}, err
		}
	}
	return m, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
