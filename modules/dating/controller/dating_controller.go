package controller

import (
	"realite-api/core/constants"
	"realite-api/core/controller"
	"realite-api/core/errors"
	"realite-api/core/utils"
	"realite-api/modules/dating/dto"
	"realite-api/modules/dating/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DatingController handles dating settings HTTP requests
type DatingController struct {
	controller.BaseController
	DatingService service.DatingService
}

func NewDatingController(svc service.DatingService) *DatingController {
	return &DatingController{
		BaseController: controller.NewBaseController(),
		DatingService:  svc,
	}
}

func (c *DatingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetSettings handles GET /settings/dating
// @Summary Get dating settings and unlock status
// @Tags Dating
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DatingSettingsResponse
// @Router /private/settings/dating [get]
func (c *DatingController) GetSettings(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.DatingService.GetSettings(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateSettings handles PATCH /settings/dating
// @Summary Update dating settings
// @Tags Dating
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateDatingSettingsRequest true "Fields to update"
// @Success 200 {object} dto.DatingSettingsResponse
// @Failure 400 {object} errors.AppError
// @Router /private/settings/dating [patch]
func (c *DatingController) UpdateSettings(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateDatingSettingsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.DatingService.UpdateSettings(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Dating settings updated")
}
