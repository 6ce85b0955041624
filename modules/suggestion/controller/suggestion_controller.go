package controller

import (
	"realite-api/core/constants"
	"realite-api/core/controller"
	"realite-api/core/errors"
	"realite-api/core/utils"
	"realite-api/modules/suggestion/dto"
	"realite-api/modules/suggestion/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SuggestionController handles suggestion HTTP requests
type SuggestionController struct {
	controller.BaseController
	SuggestionService service.SuggestionService
}

func NewSuggestionController(svc service.SuggestionService) *SuggestionController {
	return &SuggestionController{
		BaseController:    controller.NewBaseController(),
		SuggestionService: svc,
	}
}

func (c *SuggestionController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GenerateSuggestions handles POST /suggestions/run
// @Summary Recompute event suggestions for the caller
// @Tags Suggestion
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SuggestionResponse
// @Router /private/suggestions/run [post]
func (c *SuggestionController) GenerateSuggestions(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, warnings, appErr := c.SuggestionService.GenerateSuggestions(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	if len(warnings) > 0 {
		return c.SuccessResponseWithWarnings(ctx, result, "Suggestions generated", warnings)
	}
	return c.SuccessResponse(ctx, result, "Suggestions generated")
}

// GetSuggestions handles GET /suggestions
// @Summary List the caller's suggestions
// @Tags Suggestion
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SuggestionResponse
// @Router /private/suggestions [get]
func (c *SuggestionController) GetSuggestions(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.SuggestionService.GetSuggestions(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ApplyDecision handles POST /suggestions/:id/decision
// @Summary Accept or decline a suggestion
// @Tags Suggestion
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.SuggestionResponse
// @Failure 409 {object} errors.AppError
// @Router /private/suggestions/{id}/decision [post]
func (c *SuggestionController) ApplyDecision(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	suggestionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid suggestion ID")
	}

	var req dto.DecisionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "decision must be accepted or declined")
	}

	result, appErr := c.SuggestionService.ApplyDecisionFeedback(ctx.Request().Context(), userID, suggestionID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Decision recorded")
}
