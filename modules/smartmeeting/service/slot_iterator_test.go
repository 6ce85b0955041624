package service

import (
	"context"
	"testing"
	"time"

	calendarentity "realite-api/modules/calendar/entity"
	"realite-api/modules/smartmeeting/entity"

	"github.com/google/uuid"
)

func iteratorPlan() *entity.SmartMeetingPlan {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return &entity.SmartMeetingPlan{
		CreatedBy:           uuid.New(),
		DurationMinutes:     60,
		SlotIntervalMinutes: 30,
		SearchWindowStart:   start,
		SearchWindowEnd:     start.Add(3 * time.Hour),
	}
}

func TestNextCandidateSlotStartsAtWindowStart(t *testing.T) {
	plan := iteratorPlan()
	resolver := &fakeResolver{}

	got, ok := nextCandidateSlot(context.Background(), resolver, plan)
	if !ok {
		t.Fatal("no slot found in open window")
	}
	if !got.Equal(plan.SearchWindowStart) {
		t.Errorf("slot = %v, want window start %v", got, plan.SearchWindowStart)
	}
	if resolver.calls != 1 {
		t.Errorf("resolver calls = %d, want one batch", resolver.calls)
	}
}

func TestNextCandidateSlotStepsAfterCurrentCandidate(t *testing.T) {
	plan := iteratorPlan()
	tried := plan.SearchWindowStart
	plan.CandidateStart = &tried
	resolver := &fakeResolver{}

	got, ok := nextCandidateSlot(context.Background(), resolver, plan)
	if !ok {
		t.Fatal("no slot found")
	}
	want := tried.Add(30 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("slot = %v, want %v", got, want)
	}
}

func TestNextCandidateSlotSkipsBusyChronologically(t *testing.T) {
	plan := iteratorPlan()
	// 9:00 and 9:30 collide with a busy hour; 10:00 is free.
	resolver := &fakeResolver{busy: []calendarentity.Interval{{
		Start: plan.SearchWindowStart,
		End:   plan.SearchWindowStart.Add(time.Hour),
	}}}

	got, ok := nextCandidateSlot(context.Background(), resolver, plan)
	if !ok {
		t.Fatal("no slot found")
	}
	want := plan.SearchWindowStart.Add(time.Hour)
	if !got.Equal(want) {
		t.Errorf("slot = %v, want first free slot %v", got, want)
	}
}

func TestNextCandidateSlotRespectsWindowEnd(t *testing.T) {
	plan := iteratorPlan()
	// Cursor so deep into the window that no full slot fits anymore.
	tried := plan.SearchWindowEnd.Add(-time.Hour)
	plan.CandidateStart = &tried

	if _, ok := nextCandidateSlot(context.Background(), &fakeResolver{}, plan); ok {
		t.Error("found a slot past the point where none fits")
	}
}

func TestNextCandidateSlotLastFittingSlot(t *testing.T) {
	plan := iteratorPlan()
	// Cursor at 10:30 steps to 11:00, whose end 12:00 matches the window end.
	tried := plan.SearchWindowStart.Add(90 * time.Minute)
	plan.CandidateStart = &tried

	got, ok := nextCandidateSlot(context.Background(), &fakeResolver{}, plan)
	if !ok {
		t.Fatal("slot ending exactly at window end was rejected")
	}
	want := plan.SearchWindowStart.Add(2 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("slot = %v, want %v", got, want)
	}
}
