package dto

import (
	"time"

	"realite-api/modules/suggestion/entity"

	"github.com/google/uuid"
)

type DecisionRequest struct {
	// Decision is "accepted" or "declined".
	Decision string `json:"decision" validate:"required,oneof=accepted declined"`
	// Reasons carries decline reason codes; ignored on accept.
	Reasons []string `json:"reasons"`
	Note    string   `json:"note"`
}

type SuggestionResponse struct {
	ID              uuid.UUID `json:"id"`
	EventID         uuid.UUID `json:"eventId"`
	Score           float64   `json:"score"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	DecisionReasons []string  `json:"decisionReasons,omitempty"`
	DecisionNote    string    `json:"decisionNote,omitempty"`
	CalendarEventID string    `json:"calendarEventId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func ToSuggestionResponse(s *entity.Suggestion) *SuggestionResponse {
	return &SuggestionResponse{
		ID:              s.ID,
		EventID:         s.EventID,
		Score:           s.Score,
		Reason:          s.Reason,
		Status:          string(s.Status),
		DecisionReasons: s.DecisionReasons,
		DecisionNote:    s.DecisionNote,
		CalendarEventID: s.CalendarEventID,
		CreatedAt:       s.CreatedAt,
	}
}
