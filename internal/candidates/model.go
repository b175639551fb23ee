package candidates

import "time"

// Lifecycle status values, mirroring jobs. A restored candidate re-enters
// the pipeline at StageNew.
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

// StageNew is the entry pipeline stage for created and restored candidates.
const StageNew = "new"

// MaxRating bounds the candidate score.
const MaxRating = 5

// ArchiveMetadata records why and by whom a candidate was archived. Present
// iff Status == StatusArchived; cleared on restore.
type ArchiveMetadata struct {
	ArchivedAt     time.Time `json:"archivedAt"`
	ArchivedBy     string    `json:"archivedBy"`
	ArchivedByName string    `json:"archivedByName"`
	Reason         string    `json:"reason"`
	Notes          string    `json:"notes,omitempty"`
}

// Experience is one prior role.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

// Education is one degree or certification.
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear string `json:"graduationYear,omitempty"`
	FieldOfStudy   string `json:"fieldOfStudy,omitempty"`
}

// Language is a spoken language with proficiency.
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Candidate is a person in the recruiting pipeline, owned by one company.
type Candidate struct {
	ID         string           `json:"id"`
	CompanyID  string           `json:"companyId"`
	TeamID     string           `json:"teamId,omitempty"`
	Name       string           `json:"name"`
	Surname    string           `json:"surname"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Position   string           `json:"position,omitempty"`
	Company    string           `json:"company,omitempty"`
	Location   string           `json:"location,omitempty"`
	Stage      string           `json:"stage"`
	Status     string           `json:"status"`
	Visibility string           `json:"visibility"`
	Active     bool             `json:"active"`
	Rating     int              `json:"rating"`
	Skills     []string         `json:"skills"`
	Experience []Experience     `json:"experience,omitempty"`
	Education  []Education      `json:"education,omitempty"`
	Languages  []Language       `json:"languages,omitempty"`
	Source     string           `json:"source,omitempty"`
	CVURL      string           `json:"cvUrl,omitempty"`
	Archive    *ArchiveMetadata `json:"archiveMetadata,omitempty"`
	Version    int64            `json:"version"`
	CreatedAt  time.Time        `json:"createdAt"`
	CreatedBy  string           `json:"createdBy,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	UpdatedBy  string           `json:"updatedBy,omitempty"`
}

// FullName renders the display name used in activity descriptions.
func (c Candidate) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}
