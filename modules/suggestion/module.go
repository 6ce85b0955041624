package suggestion

import (
	"context"

	"realite-api/core/database"
	"realite-api/core/middleware"
	calendar "realite-api/modules/calendar"
	calendarRepo "realite-api/modules/calendar/repository"
	calendarService "realite-api/modules/calendar/service"
	datingService "realite-api/modules/dating/service"
	eventService "realite-api/modules/event/service"
	"realite-api/modules/suggestion/controller"
	"realite-api/modules/suggestion/repository"
	"realite-api/modules/suggestion/router"
	"realite-api/modules/suggestion/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// calendarAdapter narrows the calendar module to what the suggestion engine
// needs: the auto-insert opt-in and the provider write surface.
type calendarAdapter struct {
	repo     calendarRepo.CalendarRepository
	provider calendarService.Provider
}

func (a *calendarAdapter) AutoInsertEnabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	connections, err := a.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, conn := range connections {
		if conn.IsActive && conn.AutoInsertEnabled {
			return true, nil
		}
	}
	return false, nil
}

func (a *calendarAdapter) InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req calendarService.InsertEventRequest) (string, error) {
	return a.provider.InsertCalendarEvent(ctx, userID, req)
}

func (a *calendarAdapter) SyncDecisionStatus(ctx context.Context, userID uuid.UUID, externalEventID, decision string) error {
	return a.provider.SyncDecisionStatus(ctx, userID, externalEventID, decision)
}

// Init initializes the suggestion module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, cal *calendar.Module, events eventService.EventService, dating datingService.DatingService) {
	suggestionRepo := repository.NewSuggestionRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	svc := service.NewSuggestionService(
		suggestionRepo,
		preferenceRepo,
		events,
		cal.Availability,
		&calendarAdapter{repo: cal.Repository, provider: cal.Provider},
		dating,
	)
	ctrl := controller.NewSuggestionController(svc)
	rtr := router.NewSuggestionRouter(ctrl)

	rtr.Setup(e, mw)
}
