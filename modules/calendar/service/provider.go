package service

import (
	"context"
	"time"

	"realite-api/modules/calendar/entity"

	"github.com/google/uuid"
)

// InsertEventRequest is the payload for creating a provider calendar entry.
type InsertEventRequest struct {
	CalendarID  string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Provider is the calendar collaborator contract the core consumes. All
// operations are best-effort from the caller's point of view: a failure is a
// CollaboratorError, never fatal to core state.
type Provider interface {
	GetBusyWindows(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]entity.BusyWindow, error)
	InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req InsertEventRequest) (string, error)
	SyncDecisionStatus(ctx context.Context, userID uuid.UUID, externalEventID, decision string) error
}
