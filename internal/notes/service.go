package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/users"
)

// Service contains business logic for candidate and job notes.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Jobs       jobs.Repo
	Users      users.Repo
}

// Create attaches a note to a candidate or job. The parent must exist and
// belong to the company; notes on archived entities are allowed, they feed
// the history view.
func (s *Service) Create(ctx context.Context, companyID, entityType, entityID, authorID, content string) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if err := s.checkParent(ctx, companyID, entityType, entityID); err != nil {
		return Note{}, err
	}

	now := time.Now().UTC()
	n := Note{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		EntityType: entityType,
		EntityID:   entityID,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: s.authorName(ctx, companyID, authorID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

// List returns the entity's notes, newest first.
func (s *Service) List(ctx context.Context, companyID, entityType, entityID string) ([]Note, error) {
	if err := s.checkParent(ctx, companyID, entityType, entityID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, companyID, entityType, entityID)
}

// Update rewrites a note's content.
func (s *Service) Update(ctx context.Context, companyID, id, content string) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if err := s.Repo.Update(ctx, Note{ID: id, CompanyID: companyID, Content: content}); err != nil {
		return Note{}, err
	}
	return s.Repo.GetByID(ctx, companyID, id)
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.Repo.Delete(ctx, companyID, id)
}

// checkParent verifies the note's entity exists in the company. The parent
// repos return their own not-found errors, which the handler maps.
func (s *Service) checkParent(ctx context.Context, companyID, entityType, entityID string) error {
	if entityID == "" {
		return fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}
	switch entityType {
	case EntityCandidate:
		_, err := s.Candidates.GetByID(ctx, companyID, entityID)
		return err
	case EntityJob:
		_, err := s.Jobs.GetByID(ctx, companyID, entityID)
		return err
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, entityType)
	}
}

func (s *Service) authorName(ctx context.Context, companyID, authorID string) string {
	if s.Users == nil {
		return "Unknown User"
	}
	u, err := s.Users.GetByID(ctx, authorID)
	if err != nil || (u.CompanyID != "" && u.CompanyID != companyID) {
		return "Unknown User"
	}
	return u.DisplayName()
}
