package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for jobs.
type Service struct {
	Repo Repo
}

// Create validates the posting and stores it active.
func (s *Service) Create(ctx context.Context, job Job) (Job, error) {
	if strings.TrimSpace(job.Title) == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(job.CompanyID) == "" {
		return Job{}, fmt.Errorf("%w: company context is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	job.ID = uuid.NewString()
	job.Status = StatusActive
	job.Visibility = VisibilityActive
	job.Active = true
	job.Archive = nil
	job.Version = 1
	job.CreatedAt = now
	job.UpdatedAt = now
	job.UpdatedBy = job.CreatedBy

	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a company's job by ID.
func (s *Service) Get(ctx context.Context, companyID, id string) (Job, error) {
	return s.Repo.GetByID(ctx, companyID, id)
}

// List returns the company's jobs, optionally filtered by lifecycle status.
func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Job, error) {
	switch filter.Status {
	case "", StatusActive, StatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.Repo.List(ctx, companyID, filter)
}

// Update rewrites the posting's descriptive fields. Lifecycle fields are
// owned by the archive engine and cannot be changed here.
func (s *Service) Update(ctx context.Context, job Job) (Job, error) {
	if strings.TrimSpace(job.ID) == "" {
		return Job{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(job.Title) == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, job.CompanyID, job.ID)
}
