package dto

import (
	"time"

	coreDto "realite-api/core/dto"
	"realite-api/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	IsRead    bool                   `json:"isRead"`
	CreatedAt time.Time              `json:"createdAt"`
}

type PaginatedNotificationResponse = coreDto.Pagination[NotificationResponse]

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToPaginatedNotificationResponse(page *entity.PaginatedNotificationEntity) *PaginatedNotificationResponse {
	items := make([]NotificationResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToNotificationResponse(&page.Items[i])
	}
	return &PaginatedNotificationResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
