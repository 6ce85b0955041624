package router

import (
	"realite-api/core/middleware"
	"realite-api/modules/group/controller"

	"github.com/labstack/echo/v4"
)

// GroupRouter handles group routes
type GroupRouter struct {
	GroupController *controller.GroupController
}

func NewGroupRouter(groupController *controller.GroupController) *GroupRouter {
	return &GroupRouter{
		GroupController: groupController,
	}
}

// Setup registers group routes
func (r *GroupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	groupRoutes := privateRoutes.Group("/groups", mw.AuthMiddleware())

	groupRoutes.POST("", r.GroupController.CreateGroup)
	groupRoutes.GET("", r.GroupController.GetGroups)
	groupRoutes.GET("/mine", r.GroupController.GetMyGroups)
	groupRoutes.GET("/:id", r.GroupController.GetGroup)
	groupRoutes.PUT("/:id", r.GroupController.UpdateGroup)
	groupRoutes.DELETE("/:id", r.GroupController.DeleteGroup)

	groupRoutes.POST("/:id/members", r.GroupController.AddMembers)
	groupRoutes.DELETE("/:id/members/:userId", r.GroupController.RemoveMember)
}
