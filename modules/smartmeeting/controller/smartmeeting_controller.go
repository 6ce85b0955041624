package controller

import (
	"realite-api/core/constants"
	"realite-api/core/controller"
	"realite-api/core/errors"
	"realite-api/core/utils"
	"realite-api/modules/smartmeeting/dto"
	"realite-api/modules/smartmeeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SmartMeetingController handles meeting negotiation HTTP requests
type SmartMeetingController struct {
	controller.BaseController
	PlanService service.PlanService
}

func NewSmartMeetingController(svc service.PlanService) *SmartMeetingController {
	return &SmartMeetingController{
		BaseController: controller.NewBaseController(),
		PlanService:    svc,
	}
}

func (c *SmartMeetingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// CreatePlan handles POST /smart-meetings
// @Summary Create a meeting plan and start the first attempt
// @Tags SmartMeeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan details"
// @Success 200 {object} dto.PlanResponse
// @Failure 400 {object} errors.AppError
// @Router /private/smart-meetings [post]
func (c *SmartMeetingController) CreatePlan(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreatePlanRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Missing required plan fields")
	}

	result, appErr := c.PlanService.CreatePlan(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting plan created")
}

// GetPlan handles GET /smart-meetings/:id
// @Summary Get a meeting plan with the current attempt's invitations
// @Tags SmartMeeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Router /private/smart-meetings/{id} [get]
func (c *SmartMeetingController) GetPlan(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	planID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid plan ID")
	}

	result, appErr := c.PlanService.GetPlan(ctx.Request().Context(), userID, planID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Respond handles POST /smart-meetings/:id/respond
// @Summary Accept or decline the current attempt's invitation
// @Tags SmartMeeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.RespondRequest true "Response"
// @Success 200 {object} dto.PlanResponse
// @Failure 409 {object} errors.AppError
// @Router /private/smart-meetings/{id}/respond [post]
func (c *SmartMeetingController) Respond(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	planID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid plan ID")
	}

	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "response must be accepted or declined")
	}

	result, warnings, appErr := c.PlanService.Respond(ctx.Request().Context(), userID, planID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	if len(warnings) > 0 {
		return c.SuccessResponseWithWarnings(ctx, result, "Response recorded", warnings)
	}
	return c.SuccessResponse(ctx, result, "Response recorded")
}
