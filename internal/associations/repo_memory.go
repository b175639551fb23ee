package associations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]CandidateJob
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]CandidateJob)}
}

// Create stores the association, rejecting duplicate candidate/job pairs.
func (r *MemoryRepo) Create(ctx context.Context, a CandidateJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.CompanyID == a.CompanyID &&
			existing.CandidateID == a.CandidateID &&
			existing.JobID == a.JobID {
			return ErrAlreadyAssigned
		}
	}
	r.data[a.ID] = a
	return nil
}

// GetByID returns an association owned by the company.
func (r *MemoryRepo) GetByID(ctx context.Context, companyID, id string) (CandidateJob, error) {
	if err := ctx.Err(); err != nil {
		return CandidateJob{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok || a.CompanyID != companyID {
		return CandidateJob{}, ErrNotFound
	}
	return a, nil
}

// ListByCandidate returns the candidate's associations.
func (r *MemoryRepo) ListByCandidate(ctx context.Context, companyID, candidateID string) ([]CandidateJob, error) {
	return r.listWhere(ctx, companyID, func(a CandidateJob) bool {
		return a.CandidateID == candidateID
	})
}

// ListByJob returns the job's associations.
func (r *MemoryRepo) ListByJob(ctx context.Context, companyID, jobID string) ([]CandidateJob, error) {
	return r.listWhere(ctx, companyID, func(a CandidateJob) bool {
		return a.JobID == jobID
	})
}

func (r *MemoryRepo) listWhere(ctx context.Context, companyID string, match func(CandidateJob) bool) ([]CandidateJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CandidateJob, 0)
	for _, a := range r.data {
		if a.CompanyID != companyID || !match(a) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

// DeleteMany removes the given associations, skipping ids that no longer
// exist. Returns the number actually removed.
func (r *MemoryRepo) DeleteMany(ctx context.Context, companyID string, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, id := range ids {
		a, ok := r.data[id]
		if !ok || a.CompanyID != companyID {
			continue
		}
		delete(r.data, id)
		removed++
	}
	return removed, nil
}

// UpdateStatus moves the association to a new sub-status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok || a.CompanyID != companyID {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.data[id] = a
	return nil
}

// Delete removes the association outright.
func (r *MemoryRepo) Delete(ctx context.Context, companyID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok || a.CompanyID != companyID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
