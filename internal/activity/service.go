package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserLookup resolves display info for the acting user.
type UserLookup interface {
	UserDisplayInfo(ctx context.Context, companyID, userID string) (UserDisplayInfo, error)
}

// EntityLookup resolves a display snapshot for a referenced entity.
type EntityLookup interface {
	Snapshot(ctx context.Context, companyID, entityType, entityID string) (EntityInfo, error)
}

// Service enriches raw events into feed entries and stores them.
type Service struct {
	Repo     Repo
	Users    UserLookup
	Entities EntityLookup
}

// Log validates and enriches an event, then appends it to the feed. The
// stored entry carries denormalized user and entity snapshots so it stays
// readable after the referenced documents change or disappear.
func (s *Service) Log(ctx context.Context, e Event) (Activity, error) {
	if e.Type == "" {
		return Activity{}, fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	if e.UserID == "" {
		return Activity{}, fmt.Errorf("%w: user attribution is required", ErrInvalidInput)
	}
	if e.CompanyID == "" {
		return Activity{}, fmt.Errorf("%w: company attribution is required", ErrInvalidInput)
	}

	a := Activity{
		ID:         uuid.NewString(),
		CompanyID:  e.CompanyID,
		Type:       e.Type,
		UserID:     e.UserID,
		User:       s.resolveUser(ctx, e),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if info := s.resolveEntity(ctx, e); info.Name != "" {
		info.Type = e.EntityType
		a.Entity = &info
	}
	a.Description = describe(a)

	if err := s.Repo.Insert(ctx, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// List returns the company feed.
func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Activity, error) {
	return s.Repo.List(ctx, companyID, filter)
}

// resolveUser is best-effort. A failed lookup falls back to a placeholder so
// the event is never lost over missing display info.
func (s *Service) resolveUser(ctx context.Context, e Event) UserDisplayInfo {
	if s.Users != nil {
		if info, err := s.Users.UserDisplayInfo(ctx, e.CompanyID, e.UserID); err == nil && info.Name != "" {
			return info
		}
	}
	return UserDisplayInfo{Name: "Unknown User"}
}

// resolveEntity prefers a name carried in the event metadata. Delete events
// must pass one because the entity is gone by the time we log.
func (s *Service) resolveEntity(ctx context.Context, e Event) EntityInfo {
	if name, ok := e.Metadata["entityName"].(string); ok && name != "" {
		return EntityInfo{Name: name}
	}
	if e.EntityType == "" || e.EntityID == "" || s.Entities == nil {
		return EntityInfo{}
	}
	info, err := s.Entities.Snapshot(ctx, e.CompanyID, e.EntityType, e.EntityID)
	if err != nil {
		return EntityInfo{}
	}
	return info
}

func describe(a Activity) string {
	user := a.User.Name
	entity := a.EntityID
	if a.Entity != nil && a.Entity.Name != "" {
		entity = a.Entity.Name
	}

	switch a.Type {
	case TypeJobArchived:
		return fmt.Sprintf("%s archived job %s", user, entity)
	case TypeJobClosed:
		return fmt.Sprintf("%s closed job %s", user, entity)
	case TypeJobDeleted:
		return fmt.Sprintf("%s permanently deleted job %s", user, entity)
	case TypeCandidateArchived:
		return fmt.Sprintf("%s archived candidate %s", user, entity)
	case TypeCandidateRestored:
		return fmt.Sprintf("%s restored candidate %s", user, entity)
	case TypeCandidateDeleted:
		return fmt.Sprintf("%s permanently deleted candidate %s", user, entity)
	case TypeStageChanged:
		from, _ := a.Metadata["fromStage"].(string)
		to, _ := a.Metadata["toStage"].(string)
		if from != "" && to != "" {
			return fmt.Sprintf("%s moved %s from %s to %s", user, entity, from, to)
		}
		return fmt.Sprintf("%s changed the stage of %s", user, entity)
	case TypeInterviewScheduled:
		return fmt.Sprintf("%s scheduled an interview with %s", user, entity)
	}
	return fmt.Sprintf("%s performed %s", user, a.Type)
}
