package archive

import (
	"context"
	"errors"

	"sandra-backend/internal/associations"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
)

// MemoryStore implements Store on top of the in-memory entity repos, so the
// engine shares state with the rest of the app when running without a
// database. The entity write is applied first; a version mismatch there
// aborts the batch before anything else changes.
type MemoryStore struct {
	Jobs       *jobs.MemoryRepo
	Candidates *candidates.MemoryRepo
	Assocs     *associations.MemoryRepo
}

// NewMemoryStore constructs a MemoryStore over the given repos.
func NewMemoryStore(j *jobs.MemoryRepo, c *candidates.MemoryRepo, a *associations.MemoryRepo) *MemoryStore {
	return &MemoryStore{Jobs: j, Candidates: c, Assocs: a}
}

// GetJob loads a job by id across companies.
func (s *MemoryStore) GetJob(ctx context.Context, id string) (jobs.Job, error) {
	j, err := s.Jobs.GetAny(ctx, id)
	if errors.Is(err, jobs.ErrNotFound) {
		return jobs.Job{}, ErrNotFound
	}
	if err != nil {
		return jobs.Job{}, err
	}
	return j, nil
}

// GetCandidate loads a candidate by id across companies.
func (s *MemoryStore) GetCandidate(ctx context.Context, id string) (candidates.Candidate, error) {
	c, err := s.Candidates.GetAny(ctx, id)
	if errors.Is(err, candidates.ErrNotFound) {
		return candidates.Candidate{}, ErrNotFound
	}
	if err != nil {
		return candidates.Candidate{}, err
	}
	return c, nil
}

// AssociationsByJob returns the job's associations within the company.
func (s *MemoryStore) AssociationsByJob(ctx context.Context, companyID, jobID string) ([]associations.CandidateJob, error) {
	return s.Assocs.ListByJob(ctx, companyID, jobID)
}

// AssociationsByCandidate returns the candidate's associations within the
// company.
func (s *MemoryStore) AssociationsByCandidate(ctx context.Context, companyID, candidateID string) ([]associations.CandidateJob, error) {
	return s.Assocs.ListByCandidate(ctx, companyID, candidateID)
}

// Commit applies the batch. The single entity write carries the version
// condition, so a conflict aborts before association deletes run.
func (s *MemoryStore) Commit(ctx context.Context, b Batch) error {
	if b.JobUpdate != nil {
		applied, err := s.Jobs.ApplyLifecycle(ctx, b.JobUpdate.Job, b.JobUpdate.ExpectedVersion)
		if err != nil {
			return err
		}
		if !applied {
			return ErrConflict
		}
	}
	if b.CandidateUpdate != nil {
		applied, err := s.Candidates.ApplyLifecycle(ctx, b.CandidateUpdate.Candidate, b.CandidateUpdate.ExpectedVersion)
		if err != nil {
			return err
		}
		if !applied {
			return ErrConflict
		}
	}
	if b.JobDelete != nil {
		applied, err := s.Jobs.Delete(ctx, b.JobDelete.CompanyID, b.JobDelete.ID, b.JobDelete.ExpectedVersion)
		if err != nil {
			return err
		}
		if !applied {
			return ErrConflict
		}
	}
	if b.CandidateDelete != nil {
		applied, err := s.Candidates.Delete(ctx, b.CandidateDelete.CompanyID, b.CandidateDelete.ID, b.CandidateDelete.ExpectedVersion)
		if err != nil {
			return err
		}
		if !applied {
			return ErrConflict
		}
	}
	if len(b.AssociationDeletes) > 0 {
		if _, err := s.Assocs.DeleteMany(ctx, b.CompanyID, b.AssociationDeletes); err != nil {
			return err
		}
	}
	return nil
}
