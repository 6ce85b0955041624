package dto

import (
	"time"

	"realite-api/core/dto"

	"github.com/google/uuid"
)

type GroupRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
}

type AddMembersRequest struct {
	UserIDs []uuid.UUID `json:"userIds" validate:"required,min=1"`
}

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type GroupDetailResponse struct {
	GroupResponse
	Members []GroupMemberResponse `json:"members"`
}

type PaginatedGroupResponse = dto.Pagination[GroupResponse]
