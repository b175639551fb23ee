package activity

import "time"

// Activity types recorded in the feed.
const (
	TypeJobArchived        = "job_archived"
	TypeJobClosed          = "job_closed"
	TypeJobDeleted         = "job_deleted"
	TypeCandidateArchived  = "candidate_archived"
	TypeCandidateRestored  = "candidate_restored"
	TypeCandidateDeleted   = "candidate_deleted"
	TypeStageChanged       = "stage_changed"
	TypeInterviewScheduled = "interview_scheduled"
)

// Entity types an activity can reference.
const (
	EntityJob       = "job"
	EntityCandidate = "candidate"
)

// Event is the raw input to the activity log, before enrichment.
type Event struct {
	Type       string
	UserID     string
	CompanyID  string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

// UserDisplayInfo is a denormalized snapshot of the acting user, captured at
// write time so feed entries stay readable after user changes.
type UserDisplayInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// EntityInfo is a denormalized snapshot of the referenced entity. Department
// is set for jobs, Position for candidates.
type EntityInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// Activity is one immutable feed entry.
type Activity struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"companyId"`
	Type        string          `json:"type"`
	UserID      string          `json:"userId"`
	User        UserDisplayInfo `json:"userDisplayInfo"`
	EntityType  string          `json:"entityType,omitempty"`
	EntityID    string          `json:"entityId,omitempty"`
	Entity      *EntityInfo     `json:"entityInfo,omitempty"`
	Description string          `json:"description"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
