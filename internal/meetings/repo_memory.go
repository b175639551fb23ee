package meetings

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Meeting
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Meeting)}
}

// Create stores the meeting.
func (r *MemoryRepo) Create(ctx context.Context, m Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[m.ID] = m
	return nil
}

// GetByID returns a meeting owned by the company.
func (r *MemoryRepo) GetByID(ctx context.Context, companyID, id string) (Meeting, error) {
	if err := ctx.Err(); err != nil {
		return Meeting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.data[id]
	if !ok || m.CompanyID != companyID {
		return Meeting{}, ErrNotFound
	}
	return m, nil
}

// List returns company meetings ordered by start time.
func (r *MemoryRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Meeting, 0)
	for _, m := range r.data {
		if m.CompanyID != companyID {
			continue
		}
		if filter.CandidateID != "" && m.CandidateID != filter.CandidateID {
			continue
		}
		if filter.JobID != "" && m.JobID != filter.JobID {
			continue
		}
		if !filter.From.IsZero() && m.StartsAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !m.StartsAt.Before(filter.To) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

// Update rewrites the meeting fields.
func (r *MemoryRepo) Update(ctx context.Context, m Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[m.ID]
	if !ok || existing.CompanyID != m.CompanyID {
		return ErrNotFound
	}
	m.CreatedBy = existing.CreatedBy
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	r.data[m.ID] = m
	return nil
}

// Delete removes the meeting.
func (r *MemoryRepo) Delete(ctx context.Context, companyID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.data[id]
	if !ok || m.CompanyID != companyID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
