package entity

import (
	"fmt"

	"realite-api/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SuggestionStatus is the lifecycle of a recommendation. pending and
// calendar_inserted are engine-owned; accepted and declined are user
// decisions and are terminal.
type SuggestionStatus string

const (
	StatusPending          SuggestionStatus = "pending"
	StatusCalendarInserted SuggestionStatus = "calendar_inserted"
	StatusAccepted         SuggestionStatus = "accepted"
	StatusDeclined         SuggestionStatus = "declined"
)

// Decline reason codes.
const (
	DeclineNoInterest    = "no_interest"
	DeclineNoTime        = "no_time"
	DeclineWrongLocation = "wrong_location"
	DeclineWrongPeople   = "wrong_people"
	DeclineOther         = "other"
)

// ValidDeclineReason reports whether code is one of the enumerated reasons.
func ValidDeclineReason(code string) bool {
	switch code {
	case DeclineNoInterest, DeclineNoTime, DeclineWrongLocation, DeclineWrongPeople, DeclineOther:
		return true
	}
	return false
}

// CanTransition guards status changes: user decisions are final, and the
// engine may only move pending to calendar_inserted.
func CanTransition(from, to SuggestionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusCalendarInserted || to == StatusAccepted || to == StatusDeclined
	case StatusCalendarInserted:
		return to == StatusAccepted || to == StatusDeclined
	case StatusAccepted, StatusDeclined:
		return false
	}
	return false
}

// Suggestion is one recommendation of an event to a user. There is at most
// one row per (user, event) pair; rows are never deleted because they feed
// the preference learner.
type Suggestion struct {
	UserID uuid.UUID `db:"user_id"`

	EventID uuid.UUID `db:"event_id"`

	Score float64 `db:"score"`

	// Reason is the human-readable explanation shown with the suggestion.
	Reason string `db:"reason"`

	Status SuggestionStatus `db:"status"`

	// DecisionReasons is only meaningful when Status is declined.
	DecisionReasons pq.StringArray `db:"decision_reasons"`

	DecisionNote string `db:"decision_note"`

	// CalendarEventID is the provider id, set once auto-inserted.
	CalendarEventID string `db:"calendar_event_id"`

	entity.BaseEntity
}

// ApplyDecision moves the suggestion to a terminal user decision.
func (s *Suggestion) ApplyDecision(to SuggestionStatus, reasons []string, note string) error {
	if to != StatusAccepted && to != StatusDeclined {
		return fmt.Errorf("decision must be accepted or declined, got %q", to)
	}
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("suggestion already decided as %q", s.Status)
	}

	s.Status = to
	if to == StatusDeclined {
		s.DecisionReasons = reasons
	} else {
		s.DecisionReasons = nil
	}
	s.DecisionNote = note
	return nil
}

// PreferenceWeight is the learned scalar for one (user, tag) pair.
type PreferenceWeight struct {
	UserID uuid.UUID `db:"user_id"`

	TagKey string `db:"tag_key"`

	Weight float64 `db:"weight"`

	Votes int `db:"votes"`

	entity.BaseEntity
}
