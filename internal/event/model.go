package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
)

// Event represents a calendar entry. A nil Region marks a national event.
type Event struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Location      *string    `json:"location,omitempty"`
	Region        *string    `json:"region,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	CreatorID     *uuid.UUID `json:"creator_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListFilter narrows a calendar query
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Region string
}

// Target returns the access target for this event
func (e *Event) Target() access.Target {
	return access.EventTarget(e.Region)
}

// IsNational reports whether the event is open to every region
func (e *Event) IsNational() bool {
	return e.Region == nil
}
