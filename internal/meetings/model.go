package meetings

import "time"

// Meeting types.
const (
	TypeInterview = "interview"
	TypeCall      = "call"
	TypeFollowUp  = "follow_up"
	TypeOther     = "other"
)

// Meeting is a scheduled event tied to a candidate and optionally a job.
type Meeting struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	CandidateID string    `json:"candidateId,omitempty"`
	JobID       string    `json:"jobId,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Location    string    `json:"location,omitempty"`
	MeetingLink string    `json:"meetingLink,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
