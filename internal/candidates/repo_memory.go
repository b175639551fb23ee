package candidates

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Candidate)}
}

// Create stores the candidate.
func (r *MemoryRepo) Create(ctx context.Context, c Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.ID] = c
	return nil
}

// GetByID returns a candidate owned by the company.
func (r *MemoryRepo) GetByID(ctx context.Context, companyID, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok || c.CompanyID != companyID {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// List returns company candidates, newest first, optionally filtered.
func (r *MemoryRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Candidate, 0)
	for _, c := range r.data {
		if c.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Stage != "" && c.Stage != filter.Stage {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites the mutable candidate fields and bumps the version.
func (r *MemoryRepo) Update(ctx context.Context, c Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[c.ID]
	if !ok || existing.CompanyID != c.CompanyID {
		return ErrNotFound
	}

	existing.Name = c.Name
	existing.Surname = c.Surname
	existing.Email = c.Email
	existing.Phone = c.Phone
	existing.Position = c.Position
	existing.Company = c.Company
	existing.Location = c.Location
	existing.Stage = c.Stage
	existing.Rating = c.Rating
	existing.Skills = c.Skills
	existing.Experience = c.Experience
	existing.Education = c.Education
	existing.Languages = c.Languages
	existing.Source = c.Source
	existing.CVURL = c.CVURL
	existing.Version++
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = c.UpdatedBy
	r.data[c.ID] = existing
	return nil
}

// GetAny returns the candidate regardless of owning company.
func (r *MemoryRepo) GetAny(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return c, nil
}

// ApplyLifecycle swaps the candidate's lifecycle fields (status, visibility,
// active flag, stage, archive metadata) if the stored version still matches
// expectedVersion. Reports whether the swap was applied.
func (r *MemoryRepo) ApplyLifecycle(ctx context.Context, c Candidate, expectedVersion int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[c.ID]
	if !ok || existing.CompanyID != c.CompanyID || existing.Version != expectedVersion {
		return false, nil
	}

	existing.Status = c.Status
	existing.Visibility = c.Visibility
	existing.Active = c.Active
	existing.Stage = c.Stage
	existing.Archive = c.Archive
	existing.Version++
	existing.UpdatedAt = c.UpdatedAt
	existing.UpdatedBy = c.UpdatedBy
	r.data[c.ID] = existing
	return true, nil
}

// Delete removes the candidate if the stored version still matches. Reports
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
