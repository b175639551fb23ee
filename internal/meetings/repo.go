package meetings

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a meeting does not exist or belongs to
	// another company.
	ErrNotFound = errors.New("meeting not found")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// ListFilter narrows List results.
type ListFilter struct {
	CandidateID string
	JobID       string
	// From and To bound the meeting start time. Zero values disable the
	// bound.
	From time.Time
	To   time.Time
}

// Repo is the persistence boundary for meetings.
type Repo interface {
	Create(ctx context.Context, m Meeting) error
	GetByID(ctx context.Context, companyID, id string) (Meeting, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]Meeting, error)
	Update(ctx context.Context, m Meeting) error
	Delete(ctx context.Context, companyID, id string) error
}
