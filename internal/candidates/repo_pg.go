package candidates

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

const candidateColumns = `
id, company_id, COALESCE(team_id, ''), name, surname, email, phone, position, company, location,
stage, status, visibility, active, rating, skills, experience, education, languages,
source, cv_url, archived_at, archived_by, archived_by_name, archive_reason, archive_notes,
version, created_at, created_by, updated_at, updated_by`

// Create inserts a new candidate.
func (r *PGRepo) Create(ctx context.Context, c Candidate) error {
	const query = `
INSERT INTO candidates (
    id, company_id, team_id, name, surname, email, phone, position, company, location,
    stage, status, visibility, active, rating, skills, experience, education, languages,
    source, cv_url, version, created_at, created_by, updated_at, updated_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
    $20, $21, $22, $23, $24, $23, $24)`

	skills, experience, education, languages, err := marshalProfile(c)
	if err != nil {
		return err
	}

	var teamID sql.NullString
	if c.TeamID != "" {
		teamID = sql.NullString{String: c.TeamID, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.CompanyID,
		teamID,
		c.Name,
		c.Surname,
		c.Email,
		c.Phone,
		c.Position,
		c.Company,
		c.Location,
		c.Stage,
		c.Status,
		c.Visibility,
		c.Active,
		c.Rating,
		skills,
		experience,
		education,
		languages,
		c.Source,
		c.CVURL,
		c.Version,
		c.CreatedAt,
		c.CreatedBy,
	)
	return err
}

// GetByID returns a candidate owned by the company.
func (r *PGRepo) GetByID(ctx context.Context, companyID, id string) (Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 AND company_id = $2`
	row := r.DB.QueryRowContext(ctx, query, id, companyID)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return c, nil
}

// List returns company candidates, newest first, optionally filtered.
func (r *PGRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE company_id = $1`
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Stage != "" {
		args = append(args, filter.Stage)
		query += fmt.Sprintf(" AND stage = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable candidate fields and bumps the version.
func (r *PGRepo) Update(ctx context.Context, c Candidate) error {
	const query = `
UPDATE candidates SET
    name = $3, surname = $4, email = $5, phone = $6, position = $7, company = $8,
    location = $9, stage = $10, rating = $11, skills = $12, experience = $13,
    education = $14, languages = $15, source = $16, cv_url = $17,
    version = version + 1, updated_at = $18, updated_by = $19
WHERE id = $1 AND company_id = $2`

	skills, experience, education, languages, err := marshalProfile(c)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.CompanyID,
		c.Name,
		c.Surname,
		c.Email,
		c.Phone,
		c.Position,
		c.Company,
		c.Location,
		c.Stage,
		c.Rating,
		skills,
		experience,
		education,
		languages,
		c.Source,
		c.CVURL,
		time.Now().UTC(),
		c.UpdatedBy,
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

func marshalProfile(c Candidate) (skills, experience, education, languages []byte, err error) {
	if skills, err = json.Marshal(skillsOrEmpty(c.Skills)); err != nil {
		return
	}
	if experience, err = json.Marshal(c.Experience); err != nil {
		return
	}
	if education, err = json.Marshal(c.Education); err != nil {
		return
	}
	languages, err = json.Marshal(c.Languages)
	return
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var (
		c              Candidate
		skills         []byte
		experience     []byte
		education      []byte
		languages      []byte
		archivedAt     sql.NullTime
		archivedBy     sql.NullString
		archivedByName sql.NullString
		archiveReason  sql.NullString
		archiveNotes   sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.TeamID,
		&c.Name,
		&c.Surname,
		&c.Email,
		&c.Phone,
		&c.Position,
		&c.Company,
		&c.Location,
		&c.Stage,
		&c.Status,
		&c.Visibility,
		&c.Active,
		&c.Rating,
		&skills,
		&experience,
		&education,
		&languages,
		&c.Source,
		&c.CVURL,
		&archivedAt,
		&archivedBy,
		&archivedByName,
		&archiveReason,
		&archiveNotes,
		&c.Version,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.UpdatedAt,
		&c.UpdatedBy,
	)
	if err != nil {
		return Candidate{}, err
	}

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &c.Skills); err != nil {
			return Candidate{}, err
		}
	}
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &c.Experience); err != nil {
			return Candidate{}, err
		}
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &c.Education); err != nil {
			return Candidate{}, err
		}
	}
	if len(languages) > 0 {
		if err := json.Unmarshal(languages, &c.Languages); err != nil {
			return Candidate{}, err
		}
	}

	if archivedAt.Valid {
		c.Archive = &ArchiveMetadata{
			ArchivedAt:     archivedAt.Time,
			ArchivedBy:     archivedBy.String,
			ArchivedByName: archivedByName.String,
			Reason:         archiveReason.String,
			Notes:          archiveNotes.String,
		}
	}

	return c, nil
}

func skillsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
