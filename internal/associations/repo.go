package associations

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when an association does not exist or belongs
	// to another company.
	ErrNotFound = errors.New("association not found")
	// ErrAlreadyAssigned is returned when the candidate is already linked to
	// the job.
	ErrAlreadyAssigned = errors.New("candidate already assigned to job")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// Repo is the persistence boundary for candidate-job associations.
type Repo interface {
	Create(ctx context.Context, a CandidateJob) error
	GetByID(ctx context.Context, companyID, id string) (CandidateJob, error)
	ListByCandidate(ctx context.Context, companyID, candidateID string) ([]CandidateJob, error)
	ListByJob(ctx context.Context, companyID, jobID string) ([]CandidateJob, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	Delete(ctx context.Context, companyID, id string) error
}
