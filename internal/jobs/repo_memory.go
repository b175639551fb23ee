package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Job
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Job)}
}

// Create stores the job.
func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.ID] = job
	return nil
}

// GetByID returns a job owned by the company.
func (r *MemoryRepo) GetByID(ctx context.Context, companyID, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[id]
	if !ok || job.CompanyID != companyID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// List returns company jobs, newest first, optionally filtered by status.
func (r *MemoryRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Job, 0)
	for _, job := range r.data {
		if job.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites the mutable job fields and bumps the version.
func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[job.ID]
	if !ok || existing.CompanyID != job.CompanyID {
		return ErrNotFound
	}

	existing.Title = job.Title
	existing.Company = job.Company
	existing.Department = job.Department
	existing.Reference = job.Reference
	existing.Location = job.Location
	existing.Type = job.Type
	existing.Description = job.Description
	existing.Requirements = job.Requirements
	existing.ContactName = job.ContactName
	existing.ContactEmail = job.ContactEmail
	existing.Version++
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = job.UpdatedBy
	r.data[job.ID] = existing
	return nil
}

// GetAny returns the job regardless of owning company.
func (r *MemoryRepo) GetAny(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// ApplyLifecycle swaps the job's lifecycle fields if the stored version
// still matches expectedVersion. Reports whether the swap was applied.
func (r *MemoryRepo) ApplyLifecycle(ctx context.Context, job Job, expectedVersion int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[job.ID]
	if !ok || existing.CompanyID != job.CompanyID || existing.Version != expectedVersion {
		return false, nil
	}

	existing.Status = job.Status
	existing.Visibility = job.Visibility
	existing.Active = job.Active
	existing.Archive = job.Archive
	existing.Version++
	existing.UpdatedAt = job.UpdatedAt
	existing.UpdatedBy = job.UpdatedBy
	r.data[job.ID] = existing
	return true, nil
}

// Delete removes the job if the stored version still matches. Reports
// whether the delete was applied.
func (r *MemoryRepo) Delete(ctx context.Context, companyID, id string, expectedVersion int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[id]
	if !ok || existing.CompanyID != companyID || existing.Version != expectedVersion {
		return false, nil
	}
	delete(r.data, id)
	return true, nil
}
