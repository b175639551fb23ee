package jobs

import "time"

// Lifecycle status values. The denormalized Active flag must always agree
// with Status and Visibility; the archive engine owns all transitions.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Visibility values.
const (
	VisibilityActive   = "active"
	VisibilityArchived = "archived"
	VisibilityHidden   = "hidden"
)

// ArchiveMetadata records why and by whom a job was archived. Present iff
// Status == StatusArchived.
type ArchiveMetadata struct {
	ArchivedAt     time.Time `json:"archivedAt"`
	ArchivedBy     string    `json:"archivedBy"`
	ArchivedByName string    `json:"archivedByName"`
	Reason         string    `json:"reason"`
	Notes          string    `json:"notes,omitempty"`
}

// Job is a posted position owned by one company.
type Job struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"companyId"`
	TeamID       string           `json:"teamId,omitempty"`
	Title        string           `json:"title"`
	Company      string           `json:"company"`
	Department   string           `json:"department"`
	Reference    string           `json:"reference,omitempty"`
	Location     string           `json:"location"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	Requirements []string         `json:"requirements"`
	ContactName  string           `json:"contactName,omitempty"`
	ContactEmail string           `json:"contactEmail,omitempty"`
	Status       string           `json:"status"`
	Visibility   string           `json:"visibility"`
	Active       bool             `json:"active"`
	Archive      *ArchiveMetadata `json:"archiveMetadata,omitempty"`
	Version      int64            `json:"version"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	UpdatedBy    string           `json:"updatedBy,omitempty"`
}
