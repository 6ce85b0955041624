package service

import (
	"context"
	"fmt"
	"time"

	"realite-api/core/logger"
	"realite-api/modules/calendar/entity"

	"github.com/google/uuid"
)

// AvailabilityService decides which candidate intervals a user is free for.
type AvailabilityService struct {
	provider Provider
}

func NewAvailabilityService(provider Provider) *AvailabilityService {
	return &AvailabilityService{provider: provider}
}

// ComputeAvailability maps every interval id to whether the user is free for
// it. The provider is asked once for the whole span covering all intervals,
// regardless of how many there are. An interval is available iff it overlaps
// no busy window (half-open test).
//
// Fail-open: when the provider call fails or returns nothing, every interval
// is reported available and a warning is returned. Missing calendar access
// must not block recommendations.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, userID uuid.UUID, intervals []entity.Interval) (map[string]bool, string) {
	result := make(map[string]bool, len(intervals))
	for _, iv := range intervals {
		result[iv.ID] = true
	}
	if len(intervals) == 0 {
		return result, ""
	}

	timeMin, timeMax := span(intervals)

	windows, err := s.provider.GetBusyWindows(ctx, userID, timeMin, timeMax)
	if err != nil {
		logger.Warn("AvailabilityService:ComputeAvailability:ProviderError", "user_id", userID, "error", err)
		return result, fmt.Sprintf("calendar unavailable, assuming free: %v", err)
	}
	if len(windows) == 0 {
		return result, ""
	}

	for _, iv := range intervals {
		for _, w := range windows {
			if iv.Overlaps(w) {
				result[iv.ID] = false
				break
			}
		}
	}

	return result, ""
}

// span returns the smallest [min(start), max(end)] covering all intervals.
func span(intervals []entity.Interval) (time.Time, time.Time) {
	timeMin := intervals[0].Start
	timeMax := intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(timeMin) {
			timeMin = iv.Start
		}
		if iv.End.After(timeMax) {
			timeMax = iv.End
		}
	}
	return timeMin, timeMax
}
