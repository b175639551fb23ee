package candidates

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a candidate does not exist or belongs to
	// another company.
	ErrNotFound = errors.New("candidate not found")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// ListFilter narrows List results.
type ListFilter struct {
	// Status filters by lifecycle status. Empty means active only; "all"
	// disables the filter.
	Status string
	// Stage filters by pipeline stage. Empty disables the filter.
	Stage string
}

// Repo is the persistence boundary for candidates.
type Repo interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, companyID, id string) (Candidate, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]Candidate, error)
	Update(ctx context.Context, c Candidate) error
}
