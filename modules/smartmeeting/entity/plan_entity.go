package entity

import (
	"fmt"
	"time"

	"realite-api/core/constants"
	"realite-api/core/entity"

	"github.com/google/uuid"
)

// PlanState is the negotiation lifecycle. finalized and failed are terminal.
type PlanState string

const (
	StateSearching         PlanState = "searching"
	StateAwaitingResponses PlanState = "awaiting_responses"
	StateFinalized         PlanState = "finalized"
	StateFailed            PlanState = "failed"
)

// CanTransition is the exhaustive transition relation of the negotiation.
func CanTransition(from, to PlanState) bool {
	switch from {
	case StateSearching:
		return to == StateAwaitingResponses || to == StateFailed
	case StateAwaitingResponses:
		return to == StateSearching || to == StateFinalized || to == StateFailed
	case StateFinalized, StateFailed:
		return false
	}
	return false
}

// SmartMeetingPlan negotiates a meeting time for a group through bounded
// multi-round attempts. Candidate slots are tried chronologically inside the
// search window until quorum is reached or the attempt budget runs out.
type SmartMeetingPlan struct {
	GroupID uuid.UUID `db:"group_id"`

	CreatedBy uuid.UUID `db:"created_by"`

	Title string `db:"title"`

	DurationMinutes int `db:"duration_minutes"`

	MinAcceptedParticipants int `db:"min_accepted_participants"`

	ResponseWindowHours int `db:"response_window_hours"`

	SearchWindowStart time.Time `db:"search_window_start"`

	SearchWindowEnd time.Time `db:"search_window_end"`

	SlotIntervalMinutes int `db:"slot_interval_minutes"`

	MaxAttempts int `db:"max_attempts"`

	State PlanState `db:"state"`

	// CurrentAttempt counts opened attempts; 0 before the first one.
	CurrentAttempt int `db:"current_attempt"`

	CandidateStart *time.Time `db:"candidate_start"`

	CandidateEnd *time.Time `db:"candidate_end"`

	// ResponseDeadline closes the current attempt.
	ResponseDeadline *time.Time `db:"response_deadline"`

	FinalizedStartsAt *time.Time `db:"finalized_starts_at"`

	FinalizedEndsAt *time.Time `db:"finalized_ends_at"`

	entity.BaseEntity
}

// Transition moves the plan to a new state, rejecting anything outside the
// transition relation.
func (p *SmartMeetingPlan) Transition(to PlanState) error {
	if !CanTransition(p.State, to) {
		return fmt.Errorf("invalid plan transition %q -> %q", p.State, to)
	}
	p.State = to
	return nil
}

// ApplyDefaults fills the optional tuning fields.
func (p *SmartMeetingPlan) ApplyDefaults() {
	if p.ResponseWindowHours == 0 {
		p.ResponseWindowHours = constants.PlanDefaultResponseWindowHours
	}
	if p.SlotIntervalMinutes == 0 {
		p.SlotIntervalMinutes = constants.PlanDefaultSlotIntervalMinutes
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = constants.PlanDefaultMaxAttempts
	}
}

// Validate checks every construction constraint. Defaults must already be
// applied. No partial plan may be persisted when this fails.
func (p *SmartMeetingPlan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.DurationMinutes < constants.PlanMinDurationMinutes || p.DurationMinutes > constants.PlanMaxDurationMinutes {
		return fmt.Errorf("durationMinutes must be in [%d,%d]", constants.PlanMinDurationMinutes, constants.PlanMaxDurationMinutes)
	}
	if p.MinAcceptedParticipants < constants.PlanMinAcceptedLower || p.MinAcceptedParticipants > constants.PlanMinAcceptedUpper {
		return fmt.Errorf("minAcceptedParticipants must be in [%d,%d]", constants.PlanMinAcceptedLower, constants.PlanMinAcceptedUpper)
	}
	if p.ResponseWindowHours < constants.PlanResponseWindowHoursLower || p.ResponseWindowHours > constants.PlanResponseWindowHoursUpper {
		return fmt.Errorf("responseWindowHours must be in [%d,%d]", constants.PlanResponseWindowHoursLower, constants.PlanResponseWindowHoursUpper)
	}
	if p.SlotIntervalMinutes < constants.PlanSlotIntervalMinutesLower || p.SlotIntervalMinutes > constants.PlanSlotIntervalMinutesUpper {
		return fmt.Errorf("slotIntervalMinutes must be in [%d,%d]", constants.PlanSlotIntervalMinutesLower, constants.PlanSlotIntervalMinutesUpper)
	}
	if p.MaxAttempts < constants.PlanMaxAttemptsLower || p.MaxAttempts > constants.PlanMaxAttemptsUpper {
		return fmt.Errorf("maxAttempts must be in [%d,%d]", constants.PlanMaxAttemptsLower, constants.PlanMaxAttemptsUpper)
	}
	if !p.SearchWindowStart.Before(p.SearchWindowEnd) {
		return fmt.Errorf("searchWindowStart must be before searchWindowEnd")
	}
	if p.SearchWindowEnd.Sub(p.SearchWindowStart) < time.Duration(p.DurationMinutes)*time.Minute {
		return fmt.Errorf("search window must fit at least one %d-minute slot", p.DurationMinutes)
	}
	return nil
}

// Duration is the meeting length.
func (p *SmartMeetingPlan) Duration() time.Duration {
	return time.Duration(p.DurationMinutes) * time.Minute
}

// SlotInterval is the step between candidate slot starts.
func (p *SmartMeetingPlan) SlotInterval() time.Duration {
	return time.Duration(p.SlotIntervalMinutes) * time.Minute
}

// ResponseWindow is the per-attempt response deadline offset.
func (p *SmartMeetingPlan) ResponseWindow() time.Duration {
	return time.Duration(p.ResponseWindowHours) * time.Hour
}
