package service

import (
	"context"

	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/core/params"
	"realite-api/modules/group/dto"
	"realite-api/modules/group/mapper"
	"realite-api/modules/group/repository"

	"github.com/google/uuid"
)

type GroupService interface {
	CreateGroup(ctx context.Context, ownerID uuid.UUID, req *dto.GroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetGroupByID(ctx context.Context, groupID, requesterID uuid.UUID) (*dto.GroupDetailResponse, *errors.AppError)
	GetGroups(ctx context.Context, params params.QueryParams) (*dto.PaginatedGroupResponse, *errors.AppError)
	GetMyGroups(ctx context.Context, userID uuid.UUID) ([]dto.GroupResponse, *errors.AppError)
	UpdateGroup(ctx context.Context, groupID, requesterID uuid.UUID, req *dto.GroupRequest) *errors.AppError
	DeleteGroup(ctx context.Context, groupID, requesterID uuid.UUID) *errors.AppError
	AddMembers(ctx context.Context, groupID, requesterID uuid.UUID, userIDs []uuid.UUID) *errors.AppError
	RemoveMember(ctx context.Context, groupID, requesterID, userID uuid.UUID) *errors.AppError
	ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError)
}

type groupService struct {
	repo repository.GroupRepository
}

func NewGroupService(repo repository.GroupRepository) GroupService {
	return &groupService{repo: repo}
}

// CreateGroup persists the group and enrolls the owner as its first member.
func (s *groupService) CreateGroup(ctx context.Context, ownerID uuid.UUID, req *dto.GroupRequest) (*dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group := mapper.ToGroupEntity(req)
	group.OwnerID = ownerID

	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create group failed", err)
	}

	if err := s.repo.AddMembers(ctx, created.ID, []uuid.UUID{ownerID}); err != nil {
		logger.Error("GroupService:CreateGroup:EnrollOwner", "group_id", created.ID, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create group failed", err)
	}

	return mapper.ToGroupResponse(created), nil
}

func (s *groupService) GetGroupByID(ctx context.Context, groupID, requesterID uuid.UUID) (*dto.GroupDetailResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}

	isMember, err := s.repo.IsMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	members, err := s.repo.GetMembersByGroupID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group members failed", err)
	}

	resp := &dto.GroupDetailResponse{
		GroupResponse: *mapper.ToGroupResponse(group),
		Members:       make([]dto.GroupMemberResponse, len(members)),
	}
	for i := range members {
		resp.Members[i] = *mapper.ToGroupMemberResponse(&members[i])
	}
	return resp, nil
}

func (s *groupService) GetGroups(ctx context.Context, params params.QueryParams) (*dto.PaginatedGroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	groups, err := s.repo.GetGroups(ctx, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get groups failed", err)
	}
	return mapper.ToGroupPaginationResponse(groups), nil
}

func (s *groupService) GetMyGroups(ctx context.Context, userID uuid.UUID) ([]dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	groups, err := s.repo.GetGroupsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get groups failed", err)
	}

	result := make([]dto.GroupResponse, len(groups))
	for i := range groups {
		result[i] = *mapper.ToGroupResponse(&groups[i])
	}
	return result, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, groupID, requesterID uuid.UUID, req *dto.GroupRequest) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := s.requireOwner(ctx, groupID, requesterID); appErr != nil {
		return appErr
	}

	if err := s.repo.UpdateGroup(ctx, mapper.ToGroupEntity(req), groupID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "update group failed", err)
	}
	return nil
}

func (s *groupService) DeleteGroup(ctx context.Context, groupID, requesterID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := s.requireOwner(ctx, groupID, requesterID); appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete group failed", err)
	}
	return nil
}

func (s *groupService) AddMembers(ctx context.Context, groupID, requesterID uuid.UUID, userIDs []uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := s.requireOwner(ctx, groupID, requesterID); appErr != nil {
		return appErr
	}

	if err := s.repo.AddMembers(ctx, groupID, userIDs); err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "add members failed", err)
	}
	return nil
}

// RemoveMember allows the owner to remove anyone, and any member to remove
// themselves. The owner cannot leave their own group.
func (s *groupService) RemoveMember(ctx context.Context, groupID, requesterID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}

	if requesterID != group.OwnerID && requesterID != userID {
		return errors.NewAppError(errors.ErrForbidden, "only the owner can remove other members", nil)
	}
	if userID == group.OwnerID {
		return errors.NewAppError(errors.ErrInvalidInput, "the owner cannot be removed from the group", nil)
	}

	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "remove member failed", err)
	}
	return nil
}

// ListMemberIDs is the collaborator surface other modules use to resolve
// group participants.
func (s *groupService) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	members, err := s.repo.GetMembersByGroupID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group members failed", err)
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

// GroupIDsForUser lists the groups the user belongs to, id only.
func (s *groupService) GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	groups, err := s.repo.GetGroupsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get groups failed", err)
	}

	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids, nil
}

func (s *groupService) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError) {
	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrGetFailed, "check membership failed", err)
	}
	return isMember, nil
}

func (s *groupService) requireOwner(ctx context.Context, groupID, requesterID uuid.UUID) *errors.AppError {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}
	if group.OwnerID != requesterID {
		return errors.NewAppError(errors.ErrForbidden, "only the group owner may do this", nil)
	}
	return nil
}
