package notes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Note
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Note)}
}

// Create stores the note.
func (r *MemoryRepo) Create(ctx context.Context, n Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[n.ID] = n
	return nil
}

// GetByID returns a note owned by the company.
func (r *MemoryRepo) GetByID(ctx context.Context, companyID, id string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.data[id]
	if !ok || n.CompanyID != companyID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// List returns the entity's notes, newest first.
func (r *MemoryRepo) List(ctx context.Context, companyID, entityType, entityID string) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Note, 0)
	for _, n := range r.data {
		if n.CompanyID != companyID || n.EntityType != entityType || n.EntityID != entityID {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites the note content.
func (r *MemoryRepo) Update(ctx context.Context, n Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[n.ID]
	if !ok || existing.CompanyID != n.CompanyID {
		return ErrNotFound
	}
	existing.Content = n.Content
	existing.UpdatedAt = time.Now().UTC()
	r.data[n.ID] = existing
	return nil
}

// Delete removes the note.
func (r *MemoryRepo) Delete(ctx context.Context, companyID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.data[id]
	if !ok || n.CompanyID != companyID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
