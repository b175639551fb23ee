package associations

import "time"

// Association status values. Lifecycle transitions never flip these;
// archiving preserves associations as-is and restore or permanent delete
// removes them outright.
const (
	StatusInProgress = "in_progress"
	StatusMatched    = "matched"
	StatusRejected   = "rejected"
	StatusInactive   = "inactive"
)

// CandidateJob links a candidate to a job posting within one company.
type CandidateJob struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	CandidateID string    `json:"candidateId"`
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	AssignedAt  time.Time `json:"assignedAt"`
	AssignedBy  string    `json:"assignedBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
