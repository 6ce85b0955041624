package notification

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/modules/notification/controller"
	"realite-api/modules/notification/repository"
	"realite-api/modules/notification/router"
	"realite-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the notification service as the in-app notice channel.
type Module struct {
	Service service.NotificationService
}

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *Module {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{Service: svc}
}
