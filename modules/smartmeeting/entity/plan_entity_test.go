package entity

import (
	"strings"
	"testing"
	"time"
)

func validPlan() SmartMeetingPlan {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return SmartMeetingPlan{
		Title:                   "Team sync",
		DurationMinutes:         60,
		MinAcceptedParticipants: 2,
		ResponseWindowHours:     24,
		SearchWindowStart:       start,
		SearchWindowEnd:         start.Add(8 * time.Hour),
		SlotIntervalMinutes:     30,
		MaxAttempts:             5,
		State:                   StateSearching,
	}
}

func TestApplyDefaults(t *testing.T) {
	p := validPlan()
	p.ResponseWindowHours = 0
	p.SlotIntervalMinutes = 0
	p.MaxAttempts = 0

	p.ApplyDefaults()

	if p.ResponseWindowHours != 24 {
		t.Errorf("ResponseWindowHours = %d, want 24", p.ResponseWindowHours)
	}
	if p.SlotIntervalMinutes != 30 {
		t.Errorf("SlotIntervalMinutes = %d, want 30", p.SlotIntervalMinutes)
	}
	if p.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", p.MaxAttempts)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	p := validPlan()
	p.ResponseWindowHours = 48
	p.SlotIntervalMinutes = 60
	p.MaxAttempts = 2

	p.ApplyDefaults()

	if p.ResponseWindowHours != 48 || p.SlotIntervalMinutes != 60 || p.MaxAttempts != 2 {
		t.Errorf("defaults overwrote explicit values: %+v", p)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SmartMeetingPlan)
		wantErr string
	}{
		{"valid", func(p *SmartMeetingPlan) {}, ""},
		{"empty title", func(p *SmartMeetingPlan) { p.Title = "" }, "title"},
		{"duration too short", func(p *SmartMeetingPlan) { p.DurationMinutes = 14 }, "durationMinutes"},
		{"duration too long", func(p *SmartMeetingPlan) { p.DurationMinutes = 1441 }, "durationMinutes"},
		{"duration lower bound", func(p *SmartMeetingPlan) {
			p.DurationMinutes = 15
		}, ""},
		{"duration upper bound", func(p *SmartMeetingPlan) {
			p.DurationMinutes = 1440
			p.SearchWindowEnd = p.SearchWindowStart.Add(24 * time.Hour)
		}, ""},
		{"min accepted zero", func(p *SmartMeetingPlan) { p.MinAcceptedParticipants = 0 }, "minAcceptedParticipants"},
		{"min accepted too high", func(p *SmartMeetingPlan) { p.MinAcceptedParticipants = 51 }, "minAcceptedParticipants"},
		{"response window zero", func(p *SmartMeetingPlan) { p.ResponseWindowHours = 0 }, "responseWindowHours"},
		{"response window too long", func(p *SmartMeetingPlan) { p.ResponseWindowHours = 337 }, "responseWindowHours"},
		{"slot interval too small", func(p *SmartMeetingPlan) { p.SlotIntervalMinutes = 14 }, "slotIntervalMinutes"},
		{"slot interval too large", func(p *SmartMeetingPlan) { p.SlotIntervalMinutes = 181 }, "slotIntervalMinutes"},
		{"max attempts zero", func(p *SmartMeetingPlan) { p.MaxAttempts = 0 }, "maxAttempts"},
		{"max attempts too high", func(p *SmartMeetingPlan) { p.MaxAttempts = 11 }, "maxAttempts"},
		{"window inverted", func(p *SmartMeetingPlan) {
			p.SearchWindowEnd = p.SearchWindowStart.Add(-time.Hour)
		}, "searchWindowStart"},
		{"window too small for one slot", func(p *SmartMeetingPlan) {
			p.SearchWindowEnd = p.SearchWindowStart.Add(30 * time.Minute)
		}, "search window"},
		{"window exactly one slot", func(p *SmartMeetingPlan) {
			p.SearchWindowEnd = p.SearchWindowStart.Add(60 * time.Minute)
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlan()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[PlanState][]PlanState{
		StateSearching:         {StateAwaitingResponses, StateFailed},
		StateAwaitingResponses: {StateSearching, StateFinalized, StateFailed},
		StateFinalized:         {},
		StateFailed:            {},
	}
	states := []PlanState{StateSearching, StateAwaitingResponses, StateFinalized, StateFailed}

	for from, tos := range allowed {
		ok := make(map[PlanState]bool)
		for _, to := range tos {
			ok[to] = true
		}
		for _, to := range states {
			if got := CanTransition(from, to); got != ok[to] {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestTransitionRejectsTerminalStates(t *testing.T) {
	p := validPlan()
	p.State = StateFinalized
	if err := p.Transition(StateSearching); err == nil {
		t.Error("Transition from finalized succeeded, want error")
	}
	if p.State != StateFinalized {
		t.Errorf("state changed to %s on rejected transition", p.State)
	}
}
