package associations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
)

// ErrInactiveParty is returned when either side of a new association is
// archived. Archived entities must be restored before assignment.
var ErrInactiveParty = errors.New("cannot assign archived entity")

var validStatuses = map[string]bool{
	StatusInProgress: true,
	StatusMatched:    true,
	StatusRejected:   true,
	StatusInactive:   true,
}

// Service contains business logic for candidate-job associations.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Jobs       jobs.Repo
}

// Assign links a candidate to a job. Both parties must exist, belong to the
// company, and be active.
func (s *Service) Assign(ctx context.Context, companyID, candidateID, jobID, userID string) (CandidateJob, error) {
	if candidateID == "" || jobID == "" {
		return CandidateJob{}, fmt.Errorf("%w: candidateId and jobId are required", ErrInvalidInput)
	}

	cand, err := s.Candidates.GetByID(ctx, companyID, candidateID)
	if err != nil {
		return CandidateJob{}, err
	}
	if cand.Status == candidates.StatusArchived {
		return CandidateJob{}, fmt.Errorf("%w: candidate %s", ErrInactiveParty, candidateID)
	}

	job, err := s.Jobs.GetByID(ctx, companyID, jobID)
	if err != nil {
		return CandidateJob{}, err
	}
	if job.Status == jobs.StatusArchived {
		return CandidateJob{}, fmt.Errorf("%w: job %s", ErrInactiveParty, jobID)
	}

	now := time.Now().UTC()
	a := CandidateJob{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      StatusInProgress,
		AssignedAt:  now,
		AssignedBy:  userID,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return CandidateJob{}, err
	}
	return a, nil
}

// UpdateStatus moves an association to a new sub-status.
func (s *Service) UpdateStatus(ctx context.Context, companyID, id, status string) (CandidateJob, error) {
	if !validStatuses[status] {
		return CandidateJob{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if err := s.Repo.UpdateStatus(ctx, companyID, id, status); err != nil {
		return CandidateJob{}, err
	}
	return s.Repo.GetByID(ctx, companyID, id)
}

// ListForCandidate returns the candidate's associations.
func (s *Service) ListForCandidate(ctx context.Context, companyID, candidateID string) ([]CandidateJob, error) {
	return s.Repo.ListByCandidate(ctx, companyID, candidateID)
}

// ListForJob returns the job's associations.
func (s *Service) ListForJob(ctx context.Context, companyID, jobID string) ([]CandidateJob, error) {
	return s.Repo.ListByJob(ctx, companyID, jobID)
}

// Remove deletes a single association. Bulk pruning on lifecycle transitions
// is owned by the archive engine, not this service.
func (s *Service) Remove(ctx context.Context, companyID, id string) error {
	return s.Repo.Delete(ctx, companyID, id)
}
