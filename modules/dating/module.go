package dating

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/modules/dating/controller"
	"realite-api/modules/dating/repository"
	"realite-api/modules/dating/router"
	"realite-api/modules/dating/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the dating service for the suggestion engine.
type Module struct {
	Service service.DatingService
}

// Init initializes the dating module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *Module {
	repo := repository.NewDatingRepository(db)
	svc := service.NewDatingService(repo)
	ctrl := controller.NewDatingController(svc)
	rtr := router.NewDatingRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{Service: svc}
}
