package candidates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sandra-backend/internal/activity"
)

// ErrArchivedCandidate is returned when a mutation targets an archived
// candidate. Archived candidates are read-only until restored.
var ErrArchivedCandidate = errors.New("candidate is archived")

// Pipeline stages a candidate can be moved through.
var validStages = map[string]bool{
	StageNew:    true,
	"contacted": true,
	"interview": true,
	"offer":     true,
	"hired":     true,
	"rejected":  true,
}

// Service contains business logic for candidates.
type Service struct {
	Repo     Repo
	Activity *activity.Reporter
}

// Create validates the candidate and stores it active in the entry stage.
func (s *Service) Create(ctx context.Context, c Candidate) (Candidate, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.CompanyID) == "" {
		return Candidate{}, fmt.Errorf("%w: company context is required", ErrInvalidInput)
	}
	if c.Rating < 0 || c.Rating > MaxRating {
		return Candidate{}, fmt.Errorf("%w: rating must be between 0 and %d", ErrInvalidInput, MaxRating)
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	if c.Stage == "" {
		c.Stage = StageNew
	}
	if !validStages[c.Stage] {
		return Candidate{}, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, c.Stage)
	}
	c.Status = StatusActive
	c.Visibility = VisibilityActive
	c.Active = true
	c.Archive = nil
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	c.UpdatedBy = c.CreatedBy

	if err := s.Repo.Create(ctx, c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

// Get returns a company's candidate by ID.
func (s *Service) Get(ctx context.Context, companyID, id string) (Candidate, error) {
	return s.Repo.GetByID(ctx, companyID, id)
}

// List returns the company's candidates, optionally filtered.
func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Candidate, error) {
	switch filter.Status {
	case "", StatusActive, StatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Stage != "" && !validStages[filter.Stage] {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, filter.Stage)
	}
	return s.Repo.List(ctx, companyID, filter)
}

// Update rewrites the candidate's profile fields. Lifecycle fields are owned
// by the archive engine; the pipeline stage is moved through UpdateStage.
func (s *Service) Update(ctx context.Context, c Candidate) (Candidate, error) {
	if strings.TrimSpace(c.ID) == "" {
		return Candidate{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if c.Rating < 0 || c.Rating > MaxRating {
		return Candidate{}, fmt.Errorf("%w: rating must be between 0 and %d", ErrInvalidInput, MaxRating)
	}

	existing, err := s.Repo.GetByID(ctx, c.CompanyID, c.ID)
	if err != nil {
		return Candidate{}, err
	}
	if existing.Status == StatusArchived {
		return Candidate{}, ErrArchivedCandidate
	}

	c.Stage = existing.Stage
	if err := s.Repo.Update(ctx, c); err != nil {
		return Candidate{}, err
	}
	return s.Repo.GetByID(ctx, c.CompanyID, c.ID)
}

// UpdateStage moves the candidate to a new pipeline stage and records a
// stage_changed activity.
func (s *Service) UpdateStage(ctx context.Context, companyID, id, stage, userID string) (Candidate, error) {
	if !validStages[stage] {
		return Candidate{}, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}

	existing, err := s.Repo.GetByID(ctx, companyID, id)
	if err != nil {
		return Candidate{}, err
	}
	if existing.Status == StatusArchived {
		return Candidate{}, ErrArchivedCandidate
	}
	if existing.Stage == stage {
		return existing, nil
	}

	from := existing.Stage
	existing.Stage = stage
	existing.UpdatedBy = userID
	if err := s.Repo.Update(ctx, existing); err != nil {
		return Candidate{}, err
	}

	updated, err := s.Repo.GetByID(ctx, companyID, id)
	if err != nil {
		return Candidate{}, err
	}

	s.Activity.Report(ctx, activity.Event{
		Type:       activity.TypeStageChanged,
		UserID:     userID,
		CompanyID:  companyID,
		EntityType: activity.EntityCandidate,
		EntityID:   id,
		Metadata: map[string]any{
			"fromStage": from,
			"toStage":   stage,
		},
	})
	return updated, nil
}
