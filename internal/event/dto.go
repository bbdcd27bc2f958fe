package event

import (
	"time"

	"github.com/google/uuid"
)

// CreateEventRequest represents the request body for creating an event
type CreateEventRequest struct {
	Title         string    `json:"title" validate:"required,min=1,max=200"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required,gtefield=StartsAt"`
	Location      *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Region        *string   `json:"region,omitempty" validate:"omitempty,region"`
	CoverImageURL *string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// UpdateEventRequest represents the request body for updating an event. Nil fields
// are left unchanged; National set to true clears the region.
type UpdateEventRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	Location      *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Region        *string    `json:"region,omitempty" validate:"omitempty,region"`
	National      *bool      `json:"national,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	StartsAt      string     `json:"starts_at"`
	EndsAt        string     `json:"ends_at"`
	Location      *string    `json:"location,omitempty"`
	Region        *string    `json:"region,omitempty"`
	National      bool       `json:"national"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	CreatorID     *uuid.UUID `json:"creator_id,omitempty"`
	CreatedAt     string     `json:"created_at"`
}

// ToResponse converts an Event to EventResponse
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		StartsAt:      e.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:        e.EndsAt.UTC().Format(time.RFC3339),
		Location:      e.Location,
		Region:        e.Region,
		National:      e.IsNational(),
		CoverImageURL: e.CoverImageURL,
		CreatorID:     e.CreatorID,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
