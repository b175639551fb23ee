package archive

// Reason classifies why an entity was archived.
type Reason string

// Archive reasons.
const (
	ReasonHired             Reason = "hired"
	ReasonPositionFilled    Reason = "position_filled"
	ReasonPositionCancelled Reason = "position_cancelled"
	ReasonRejected          Reason = "rejected"
	ReasonWithdrawn         Reason = "withdrawn"
	ReasonExpired           Reason = "expired"
	ReasonOther             Reason = "other"
)

var validReasons = map[Reason]bool{
	ReasonHired:             true,
	ReasonPositionFilled:    true,
	ReasonPositionCancelled: true,
	ReasonRejected:          true,
	ReasonWithdrawn:         true,
	ReasonExpired:           true,
	ReasonOther:             true,
}

// Valid reports whether r is a known archive reason.
func (r Reason) Valid() bool {
	return validReasons[r]
}

// EntityType selects the target collection of a permanent delete.
type EntityType string

// Entity types the engine operates on.
const (
	TypeJob       EntityType = "job"
	TypeCandidate EntityType = "candidate"
)

// Result is the outcome of an engine operation. Operations return a Result
// alongside a classified error; the Result carries transition data the
// caller needs for logging and display.
type Result struct {
	Success             bool              `json:"success"`
	RemovedAssociations int               `json:"removedAssociations,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}
