package activity

import (
	"context"
	"errors"
)

// ErrInvalidInput is returned for events missing required attribution.
var ErrInvalidInput = errors.New("invalid input")

// ListFilter narrows List results.
type ListFilter struct {
	EntityType string
	EntityID   string
	// Limit caps the number of entries returned. Zero means DefaultListLimit.
	Limit int
}

// DefaultListLimit is the feed page size when no limit is given.
const DefaultListLimit = 50

// Repo is the append-only persistence boundary for the activity feed.
// Entries are never updated or deleted.
type Repo interface {
	Insert(ctx context.Context, a Activity) error
	List(ctx context.Context, companyID string, filter ListFilter) ([]Activity, error)
}
