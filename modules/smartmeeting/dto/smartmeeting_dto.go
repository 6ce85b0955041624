package dto

import (
	"time"

	"realite-api/modules/smartmeeting/entity"

	"github.com/google/uuid"
)

type CreatePlanRequest struct {
	GroupID                 uuid.UUID `json:"groupId" validate:"required"`
	Title                   string    `json:"title" validate:"required,max=200"`
	DurationMinutes         int       `json:"durationMinutes" validate:"required"`
	MinAcceptedParticipants int       `json:"minAcceptedParticipants" validate:"required"`
	ResponseWindowHours     int       `json:"responseWindowHours"`
	SearchWindowStart       time.Time `json:"searchWindowStart" validate:"required"`
	SearchWindowEnd         time.Time `json:"searchWindowEnd" validate:"required"`
	SlotIntervalMinutes     int       `json:"slotIntervalMinutes"`
	MaxAttempts             int       `json:"maxAttempts"`
}

type RespondRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
}

type InvitationResponse struct {
	ParticipantID uuid.UUID  `json:"participantId"`
	Response      string     `json:"response"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

type PlanResponse struct {
	ID                      uuid.UUID            `json:"id"`
	GroupID                 uuid.UUID            `json:"groupId"`
	CreatedBy               uuid.UUID            `json:"createdBy"`
	Title                   string               `json:"title"`
	DurationMinutes         int                  `json:"durationMinutes"`
	MinAcceptedParticipants int                  `json:"minAcceptedParticipants"`
	ResponseWindowHours     int                  `json:"responseWindowHours"`
	SearchWindowStart       time.Time            `json:"searchWindowStart"`
	SearchWindowEnd         time.Time            `json:"searchWindowEnd"`
	SlotIntervalMinutes     int                  `json:"slotIntervalMinutes"`
	MaxAttempts             int                  `json:"maxAttempts"`
	State                   string               `json:"state"`
	CurrentAttempt          int                  `json:"currentAttempt"`
	CandidateStart          *time.Time           `json:"candidateStart,omitempty"`
	CandidateEnd            *time.Time           `json:"candidateEnd,omitempty"`
	ResponseDeadline        *time.Time           `json:"responseDeadline,omitempty"`
	FinalizedStartsAt       *time.Time           `json:"finalizedStartsAt,omitempty"`
	FinalizedEndsAt         *time.Time           `json:"finalizedEndsAt,omitempty"`
	Invitations             []InvitationResponse `json:"invitations,omitempty"`
	Effects                 []string             `json:"effects,omitempty"`
	CreatedAt               time.Time            `json:"createdAt"`
	UpdatedAt               time.Time            `json:"updatedAt"`
}

func ToPlanResponse(plan *entity.SmartMeetingPlan, invitations []entity.PlanInvitation) *PlanResponse {
	resp := &PlanResponse{
		ID:                      plan.ID,
		GroupID:                 plan.GroupID,
		CreatedBy:               plan.CreatedBy,
		Title:                   plan.Title,
		DurationMinutes:         plan.DurationMinutes,
		MinAcceptedParticipants: plan.MinAcceptedParticipants,
		ResponseWindowHours:     plan.ResponseWindowHours,
		SearchWindowStart:       plan.SearchWindowStart,
		SearchWindowEnd:         plan.SearchWindowEnd,
		SlotIntervalMinutes:     plan.SlotIntervalMinutes,
		MaxAttempts:             plan.MaxAttempts,
		State:                   string(plan.State),
		CurrentAttempt:          plan.CurrentAttempt,
		CandidateStart:          plan.CandidateStart,
		CandidateEnd:            plan.CandidateEnd,
		ResponseDeadline:        plan.ResponseDeadline,
		FinalizedStartsAt:       plan.FinalizedStartsAt,
		FinalizedEndsAt:         plan.FinalizedEndsAt,
		CreatedAt:               plan.CreatedAt,
		UpdatedAt:               plan.UpdatedAt,
	}
	for _, inv := range invitations {
		resp.Invitations = append(resp.Invitations, InvitationResponse{
			ParticipantID: inv.ParticipantID,
			Response:      string(inv.Response),
			RespondedAt:   inv.RespondedAt,
		})
	}
	return resp
}
