package dto

import (
	"time"

	"realite-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"startsAt" validate:"required"`
	EndsAt      time.Time  `json:"endsAt" validate:"required"`
	Tags        []string   `json:"tags"`
	Visibility  string     `json:"visibility" validate:"required,oneof=public group"`
	GroupID     *uuid.UUID `json:"groupId"`
	// PhotoBase64 is an optional data-URI encoded image.
	PhotoBase64 string `json:"photoBase64"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Tags        []string   `json:"tags"`
	PhotoBase64 string     `json:"photoBase64"`
}

type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      time.Time  `json:"endsAt"`
	Tags        []string   `json:"tags"`
	Visibility  string     `json:"visibility"`
	GroupID     *uuid.UUID `json:"groupId,omitempty"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	PhotoURL    string     `json:"photoUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func ToEventResponse(event *entity.Event) *EventResponse {
	return &EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Tags:        event.Tags,
		Visibility:  event.Visibility,
		GroupID:     event.GroupID,
		CreatedBy:   event.CreatedBy,
		PhotoURL:    event.PhotoURL,
		CreatedAt:   event.CreatedAt,
	}
}
