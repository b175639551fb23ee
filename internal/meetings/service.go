package meetings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sandra-backend/internal/activity"
)

var validTypes = map[string]bool{
	TypeInterview: true,
	TypeCall:      true,
	TypeFollowUp:  true,
	TypeOther:     true,
}

// Service contains business logic for meetings.
type Service struct {
	Repo     Repo
	Activity *activity.Reporter
}

// Create validates and schedules a meeting. Interviews with a candidate are
// recorded in the activity feed.
func (s *Service) Create(ctx context.Context, m Meeting) (Meeting, error) {
	if strings.TrimSpace(m.Title) == "" {
		return Meeting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(m.CompanyID) == "" {
		return Meeting{}, fmt.Errorf("%w: company context is required", ErrInvalidInput)
	}
	if m.Type == "" {
		m.Type = TypeOther
	}
	if !validTypes[m.Type] {
		return Meeting{}, fmt.Errorf("%w: unknown meeting type %q", ErrInvalidInput, m.Type)
	}
	if m.StartsAt.IsZero() {
		return Meeting{}, fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}
	if !m.EndsAt.IsZero() && !m.EndsAt.After(m.StartsAt) {
		return Meeting{}, fmt.Errorf("%w: endsAt must be after startsAt", ErrInvalidInput)
	}
	if m.EndsAt.IsZero() {
		m.EndsAt = m.StartsAt.Add(30 * time.Minute)
	}

	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.Repo.Create(ctx, m); err != nil {
		return Meeting{}, err
	}

	if m.Type == TypeInterview && m.CandidateID != "" {
		s.Activity.Report(ctx, activity.Event{
			Type:       activity.TypeInterviewScheduled,
			UserID:     m.CreatedBy,
			CompanyID:  m.CompanyID,
			EntityType: activity.EntityCandidate,
			EntityID:   m.CandidateID,
			Metadata: map[string]any{
				"meetingId": m.ID,
				"startsAt":  m.StartsAt.Format(time.RFC3339),
				"jobId":     m.JobID,
			},
		})
	}
	return m, nil
}

// Get returns a company's meeting by ID.
func (s *Service) Get(ctx context.Context, companyID, id string) (Meeting, error) {
	return s.Repo.GetByID(ctx, companyID, id)
}

// List returns the company's meetings.
func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Meeting, error) {
	return s.Repo.List(ctx, companyID, filter)
}

// Update rewrites a meeting.
func (s *Service) Update(ctx context.Context, m Meeting) (Meeting, error) {
	if strings.TrimSpace(m.ID) == "" {
		return Meeting{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(m.Title) == "" {
		return Meeting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if m.Type != "" && !validTypes[m.Type] {
		return Meeting{}, fmt.Errorf("%w: unknown meeting type %q", ErrInvalidInput, m.Type)
	}
	if err := s.Repo.Update(ctx, m); err != nil {
		return Meeting{}, err
	}
	return s.Repo.GetByID(ctx, m.CompanyID, m.ID)
}

// Delete removes a meeting.
func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.Repo.Delete(ctx, companyID, id)
}
