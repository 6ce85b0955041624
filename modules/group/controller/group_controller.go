package controller

import (
	"realite-api/core/constants"
	"realite-api/core/controller"
	"realite-api/core/errors"
	"realite-api/core/params"
	"realite-api/core/utils"
	"realite-api/modules/group/dto"
	"realite-api/modules/group/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GroupController handles group HTTP requests
type GroupController struct {
	controller.BaseController
	GroupService service.GroupService
}

func NewGroupController(svc service.GroupService) *GroupController {
	return &GroupController{
		BaseController: controller.NewBaseController(),
		GroupService:   svc,
	}
}

func (c *GroupController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateGroup handles POST /groups
// @Summary Create a group
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.GroupRequest true "Group fields"
// @Success 200 {object} dto.GroupResponse
// @Router /private/groups [post]
func (c *GroupController) CreateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.GroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "name is required")
	}

	result, appErr := c.GroupService.CreateGroup(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group created successfully")
}

// GetGroups handles GET /groups
// @Summary List groups
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Param search query string false "Name search"
// @Success 200 {object} dto.PaginatedGroupResponse
// @Router /private/groups [get]
func (c *GroupController) GetGroups(ctx echo.Context) error {
	queryParams := params.Parse(ctx.QueryParam("page"), ctx.QueryParam("size"), ctx.QueryParam("search"))

	result, appErr := c.GroupService.GetGroups(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyGroups handles GET /groups/mine
// @Summary List groups the caller belongs to
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.GroupResponse
// @Router /private/groups/mine [get]
func (c *GroupController) GetMyGroups(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.GroupService.GetMyGroups(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetGroup handles GET /groups/:id
// @Summary Get a group with its members
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} dto.GroupDetailResponse
// @Router /private/groups/{id} [get]
func (c *GroupController) GetGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	result, appErr := c.GroupService.GetGroupByID(ctx.Request().Context(), groupID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateGroup handles PUT /groups/:id
// @Summary Update group fields
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Param id path string true "Group ID"
// @Param request body dto.GroupRequest true "Group fields"
// @Success 200 {object} map[string]string
// @Router /private/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	var req dto.GroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "name is required")
	}

	if appErr := c.GroupService.UpdateGroup(ctx.Request().Context(), groupID, userID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Group updated successfully")
}

// DeleteGroup handles DELETE /groups/:id
// @Summary Delete a group
// @Tags Group
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} map[string]string
// @Router /private/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	if appErr := c.GroupService.DeleteGroup(ctx.Request().Context(), groupID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Group deleted successfully")
}

// AddMembers handles POST /groups/:id/members
// @Summary Add members to a group
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Param id path string true "Group ID"
// @Param request body dto.AddMembersRequest true "User IDs"
// @Success 200 {object} map[string]string
// @Router /private/groups/{id}/members [post]
func (c *GroupController) AddMembers(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	var req dto.AddMembersRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "userIds must not be empty")
	}

	if appErr := c.GroupService.AddMembers(ctx.Request().Context(), groupID, userID, req.UserIDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Members added successfully")
}

// RemoveMember handles DELETE /groups/:id/members/:userId
// @Summary Remove a member from a group
// @Tags Group
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]string
// @Router /private/groups/{id}/members/{userId} [delete]
func (c *GroupController) RemoveMember(ctx echo.Context) error {
	requesterID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	memberID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	if appErr := c.GroupService.RemoveMember(ctx.Request().Context(), groupID, requesterID, memberID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member removed successfully")
}
