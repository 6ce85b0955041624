package service

import (
	"context"
	"fmt"
	"time"

	calendarentity "realite-api/modules/calendar/entity"
	"realite-api/modules/smartmeeting/entity"

	"github.com/google/uuid"
)

// availabilityResolver answers which candidate intervals the organizer is
// free for. It fails open: on provider trouble every interval counts as free.
type availabilityResolver interface {
	ComputeAvailability(ctx context.Context, userID uuid.UUID, intervals []calendarentity.Interval) (map[string]bool, string)
}

// nextCandidateSlot returns the earliest untried slot inside the search
// window that the organizer is free for. Slots start at searchWindowStart and
// step by the slot interval; a slot must fit entirely before searchWindowEnd.
// Tried slots are everything up to and including the current candidate start.
// The second return is false when the window is exhausted.
func nextCandidateSlot(ctx context.Context, resolver availabilityResolver, plan *entity.SmartMeetingPlan) (time.Time, bool) {
	duration := plan.Duration()
	step := plan.SlotInterval()

	cursor := plan.SearchWindowStart
	if plan.CandidateStart != nil {
		cursor = plan.CandidateStart.Add(step)
	}

	var intervals []calendarentity.Interval
	for start := cursor; !start.Add(duration).After(plan.SearchWindowEnd); start = start.Add(step) {
		intervals = append(intervals, calendarentity.Interval{
			ID:    fmt.Sprintf("slot:%d", start.Unix()),
			Start: start,
			End:   start.Add(duration),
		})
	}
	if len(intervals) == 0 {
		return time.Time{}, false
	}

	free, _ := resolver.ComputeAvailability(ctx, plan.CreatedBy, intervals)
	for _, iv := range intervals {
		if free[iv.ID] {
			return iv.Start, true
		}
	}
	return time.Time{}, false
}
