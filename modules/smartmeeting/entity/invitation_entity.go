package entity

import (
	"time"

	"github.com/google/uuid"
)

type InvitationResponse string

const (
	ResponsePending  InvitationResponse = "pending"
	ResponseAccepted InvitationResponse = "accepted"
	ResponseDeclined InvitationResponse = "declined"
)

func ValidInvitationResponse(r InvitationResponse) bool {
	return r == ResponseAccepted || r == ResponseDeclined
}

// PlanInvitation is one participant's invitation for one attempt. The triple
// (PlanID, Attempt, ParticipantID) is unique; a new attempt issues fresh rows.
type PlanInvitation struct {
	ID            uuid.UUID          `db:"id"`
	PlanID        uuid.UUID          `db:"plan_id"`
	Attempt       int                `db:"attempt"`
	ParticipantID uuid.UUID          `db:"participant_id"`
	Response      InvitationResponse `db:"response"`
	RespondedAt   *time.Time         `db:"responded_at"`
	CreatedAt     time.Time          `db:"created_at"`
}
