package notes

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a note does not exist or belongs to
	// another company.
	ErrNotFound = errors.New("note not found")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// Repo is the persistence boundary for notes.
type Repo interface {
	Create(ctx context.Context, n Note) error
	GetByID(ctx context.Context, companyID, id string) (Note, error)
	// List returns the notes attached to one entity, newest first.
	List(ctx context.Context, companyID, entityType, entityID string) ([]Note, error)
	Update(ctx context.Context, n Note) error
	Delete(ctx context.Context, companyID, id string) error
}
