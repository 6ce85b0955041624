package calendar

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/core/queue"
	"realite-api/modules/calendar/controller"
	"realite-api/modules/calendar/repository"
	"realite-api/modules/calendar/router"
	"realite-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Module exposes the calendar collaborators other modules depend on.
type Module struct {
	Repository   repository.CalendarRepository
	Provider     service.Provider
	Availability *service.AvailabilityService
	Service      service.CalendarService
}

// Init initializes the calendar module and registers routes. rdb and qc may
// be nil; the module then skips caching and runs syncs inline.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, rdb *redis.Client, qc *queue.Client) *Module {
	repo := repository.NewCalendarRepository(db)
	provider := service.NewGoogleProvider(repo, service.NewBusyCache(rdb))
	availability := service.NewAvailabilityService(provider)
	registry := service.NewSyncRegistry()
	svc := service.NewCalendarService(repo, provider, registry, qc)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{
		Repository:   repo,
		Provider:     provider,
		Availability: availability,
		Service:      svc,
	}
}
