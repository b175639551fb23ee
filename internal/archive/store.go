package archive

import (
	"context"

	"sandra-backend/internal/associations"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
)

// deleteChunkSize bounds one association-delete statement. Large fan-outs
// are split into chunks of this size within the same transaction.
const deleteChunkSize = 100

// JobUpdate is a lifecycle rewrite of one job, committed only if the job's
// version still equals ExpectedVersion.
type JobUpdate struct {
	Job             jobs.Job
	ExpectedVersion int64
}

// CandidateUpdate is a lifecycle rewrite of one candidate, committed only if
// the candidate's version still equals ExpectedVersion.
type CandidateUpdate struct {
	Candidate       candidates.Candidate
	ExpectedVersion int64
}

// EntityDelete removes one entity document, committed only if its version
// still equals ExpectedVersion.
type EntityDelete struct {
	CompanyID       string
	ID              string
	ExpectedVersion int64
}

// Batch is one atomic multi-document write. At most one entity update or
// delete is set per batch; association deletes ride along in the same
// transaction.
type Batch struct {
	JobUpdate          *JobUpdate
	CandidateUpdate    *CandidateUpdate
	JobDelete          *EntityDelete
	CandidateDelete    *EntityDelete
	AssociationDeletes []string
	// CompanyID scopes the association deletes.
	CompanyID string
}

// Store is the persistence boundary of the archive engine. Entity reads are
// unscoped so the engine can distinguish a missing entity from a company
// mismatch; association reads are company-scoped.
type Store interface {
	GetJob(ctx context.Context, id string) (jobs.Job, error)
	GetCandidate(ctx context.Context, id string) (candidates.Candidate, error)
	AssociationsByJob(ctx context.Context, companyID, jobID string) ([]associations.CandidateJob, error)
	AssociationsByCandidate(ctx context.Context, companyID, candidateID string) ([]associations.CandidateJob, error)
	// Commit applies the batch atomically. It returns ErrConflict if any
	// version condition fails; nothing is written in that case.
	Commit(ctx context.Context, b Batch) error
}
