package mapper

import (
	"realite-api/modules/group/dto"
	"realite-api/modules/group/entity"
)

func ToGroupEntity(req *dto.GroupRequest) *entity.Group {
	return &entity.Group{
		Name:        req.Name,
		Description: req.Description,
	}
}

func ToGroupResponse(group *entity.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		OwnerID:     group.OwnerID,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

func ToGroupMemberResponse(member *entity.GroupMember) *dto.GroupMemberResponse {
	return &dto.GroupMemberResponse{
		UserID:   member.UserID,
		JoinedAt: member.CreatedAt,
	}
}

func ToGroupPaginationResponse(page *entity.PaginatedGroupResponse) *dto.PaginatedGroupResponse {
	items := make([]dto.GroupResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToGroupResponse(&page.Items[i])
	}
	return &dto.PaginatedGroupResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
