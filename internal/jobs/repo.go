package jobs

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidInput = errors.New("invalid job input")
)

// ListFilter narrows List results. Zero value lists every job the company owns.
type ListFilter struct {
	Status string // "", StatusActive or StatusArchived
}

// Repo defines persistence operations for jobs. All reads and writes are
// company-scoped; the archive engine performs its own transactional writes.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, companyID, id string) (Job, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]Job, error)
	Update(ctx context.Context, job Job) error
}
