package notes

import "time"

// Entity types a note can attach to.
const (
	EntityCandidate = "candidate"
	EntityJob       = "job"
)

// Note is a free-form comment attached to a candidate or a job. AuthorName
// is denormalized at write time so notes stay readable after user changes.
type Note struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
