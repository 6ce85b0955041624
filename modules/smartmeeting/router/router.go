package router

import (
	"realite-api/core/middleware"
	"realite-api/modules/smartmeeting/controller"

	"github.com/labstack/echo/v4"
)

// SmartMeetingRouter handles meeting negotiation routes
type SmartMeetingRouter struct {
	SmartMeetingController *controller.SmartMeetingController
}

func NewSmartMeetingRouter(smartMeetingController *controller.SmartMeetingController) *SmartMeetingRouter {
	return &SmartMeetingRouter{
		SmartMeetingController: smartMeetingController,
	}
}

// Setup registers meeting negotiation routes
func (r *SmartMeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	meetingRoutes := privateRoutes.Group("/smart-meetings", mw.AuthMiddleware())

	meetingRoutes.POST("", r.SmartMeetingController.CreatePlan)
	meetingRoutes.GET("/:id", r.SmartMeetingController.GetPlan)
	meetingRoutes.POST("/:id/respond", r.SmartMeetingController.Respond)
}
