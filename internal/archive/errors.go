package archive

import "errors"

// Engine error taxonomy. Every operation classifies its failure into exactly
// one of these so callers can map outcomes without string matching.
var (
	// ErrValidation marks missing required identifiers, caught before any
	// store access.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an entity id that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied marks a company mismatch between the entity and the
	// caller. The multi-tenancy guard checked on every operation.
	ErrAccessDenied = errors.New("invalid company access")
	// ErrInvalidState marks a lifecycle precondition violation, such as
	// restoring a candidate that is not archived.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict marks a lost optimistic-lock race: the entity changed
	// between the engine's read and its commit. Callers may retry.
	ErrConflict = errors.New("conflict")
	// ErrStore wraps unexpected storage failures behind a generic message.
	ErrStore = errors.New("storage error")
)
