package participation

import (
	"time"

	"github.com/google/uuid"
)

// Participation records that a member registered for an event
type Participation struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	MemberID  uuid.UUID `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Participant is a registered member as shown to organisers
type Participant struct {
	MemberID     uuid.UUID `json:"member_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Region       string    `json:"region,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Status is the viewer's registration state for one event
type Status struct {
	EventID    int64 `json:"event_id"`
	Registered bool  `json:"registered"`
	Count      int   `json:"count"`
}
