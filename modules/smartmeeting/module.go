package smartmeeting

import (
	"realite-api/core/database"
	"realite-api/core/middleware"
	"realite-api/core/queue"
	calendar "realite-api/modules/calendar"
	groupService "realite-api/modules/group/service"
	notificationService "realite-api/modules/notification/service"
	"realite-api/modules/smartmeeting/controller"
	"realite-api/modules/smartmeeting/repository"
	"realite-api/modules/smartmeeting/router"
	"realite-api/modules/smartmeeting/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the negotiation service for task handler registration.
type Module struct {
	Service service.PlanService
}

// Init initializes the smart meeting module and registers routes. The queue
// client and notification service may be nil; negotiation then runs inline
// and silently.
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	cal *calendar.Module,
	groups groupService.GroupService,
	notifications notificationService.NotificationService,
	qc *queue.Client,
) *Module {
	planRepo := repository.NewPlanRepository(db)

	svc := service.NewPlanService(
		planRepo,
		groups,
		cal.Availability,
		cal.Provider,
		notifications,
		enqueuerOrNil(qc),
	)
	ctrl := controller.NewSmartMeetingController(svc)
	rtr := router.NewSmartMeetingRouter(ctrl)

	rtr.Setup(e, mw)

	return &Module{Service: svc}
}

// A nil *queue.Client stored in a non-nil interface would slip past the
// service's nil checks; keep the interface itself nil instead.
func enqueuerOrNil(qc *queue.Client) service.AdvanceEnqueuer {
	if qc == nil {
		return nil
	}
	return qc
}
