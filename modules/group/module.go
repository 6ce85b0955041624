package group

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/modules/group/controller"
	"realite-api/modules/group/repository"
	"realite-api/modules/group/router"
	"realite-api/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the group service for cross-module wiring.
type Module struct {
	Service service.GroupService
}

// Init initializes the group module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *Module {
	repo := repository.NewGroupRepository(db)
	svc := service.NewGroupService(repo)
	ctrl := controller.NewGroupController(svc)
	rtr := router.NewGroupRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{Service: svc}
}
