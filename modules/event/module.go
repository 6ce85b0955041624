package event

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/core/storage"
	"realite-api/modules/event/controller"
	"realite-api/modules/event/repository"
	"realite-api/modules/event/router"
	"realite-api/modules/event/service"
	groupservice "realite-api/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the event service for the recommendation pipeline.
type Module struct {
	Service service.EventService
}

// Init initializes the event module and registers routes. media may be nil
// when no object storage is configured; photo uploads are then rejected.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, groups groupservice.GroupService, media storage.MediaStore) *Module {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, groups, media)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{Service: svc}
}
