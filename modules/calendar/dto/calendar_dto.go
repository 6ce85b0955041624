package dto

import (
	"time"

	"realite-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type ConnectGoogleRequest struct {
	AuthCode string `json:"authCode" validate:"required"`
}

type SetAutoInsertRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type TriggerSyncRequest struct {
	Force bool `json:"force"`
}

type CalendarConnectionResponse struct {
	ID               uuid.UUID `json:"id"`
	Provider         string    `json:"provider"`
	CalendarEmail    string    `json:"calendarEmail"`
	IsActive         bool      `json:"isActive"`
	AutoInsertEnabled bool     `json:"autoInsertEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

func ToConnectionResponse(conn *entity.CalendarConnection) *CalendarConnectionResponse {
	return &CalendarConnectionResponse{
		ID:                conn.ID,
		Provider:          conn.Provider,
		CalendarEmail:     conn.CalendarEmail,
		IsActive:          conn.IsActive,
		AutoInsertEnabled: conn.AutoInsertEnabled,
		CreatedAt:         conn.CreatedAt,
	}
}
