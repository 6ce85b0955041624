package router

import (
	"realite-api/core/middleware"
	"realite-api/modules/dating/controller"

	"github.com/labstack/echo/v4"
)

// DatingRouter handles dating routes
type DatingRouter struct {
	DatingController *controller.DatingController
}

func NewDatingRouter(datingController *controller.DatingController) *DatingRouter {
	return &DatingRouter{
		DatingController: datingController,
	}
}

// Setup registers dating routes
func (r *DatingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	settingsRoutes := privateRoutes.Group("/settings", mw.AuthMiddleware())

	settingsRoutes.GET("/dating", r.DatingController.GetSettings)
	settingsRoutes.PATCH("/dating", r.DatingController.UpdateSettings)
}
