package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"realite-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type fakeProvider struct {
	windows []entity.BusyWindow
	err     error
	calls   int
}

func (f *fakeProvider) GetBusyWindows(ctx context.Context, userID uuid.UUID, timeMin, timeMax time.Time) ([]entity.BusyWindow, error) {
	f.calls++
	return f.windows, f.err
}

func (f *fakeProvider) InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req InsertEventRequest) (string, error) {
	return "fake-event-id", nil
}

func (f *fakeProvider) SyncDecisionStatus(ctx context.Context, userID uuid.UUID, externalEventID, decision string) error {
	return nil
}

func at(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

func TestComputeAvailabilityMarksOverlaps(t *testing.T) {
	provider := &fakeProvider{
		windows: []entity.BusyWindow{
			{Start: at(10), End: at(12)},
		},
	}
	svc := NewAvailabilityService(provider)

	intervals := []entity.Interval{
		{ID: "before", Start: at(8), End: at(9)},
		{ID: "overlapping", Start: at(11), End: at(13)},
		{ID: "inside", Start: at(10).Add(30 * time.Minute), End: at(11)},
		{ID: "after", Start: at(14), End: at(15)},
	}

	result, warning := svc.ComputeAvailability(context.Background(), uuid.New(), intervals)
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}

	want := map[string]bool{
		"before":      true,
		"overlapping": false,
		"inside":      false,
		"after":       true,
	}
	for id, free := range want {
		if result[id] != free {
			t.Errorf("interval %s: got available=%v, want %v", id, result[id], free)
		}
	}
}

func TestComputeAvailabilityHalfOpenBoundaries(t *testing.T) {
	// Busy 10:00-11:00. Touching intervals share only an endpoint and
	// must stay available.
	provider := &fakeProvider{
		windows: []entity.BusyWindow{
			{Start: at(10), End: at(11)},
		},
	}
	svc := NewAvailabilityService(provider)

	intervals := []entity.Interval{
		{ID: "ends-at-start", Start: at(9), End: at(10)},
		{ID: "starts-at-end", Start: at(11), End: at(12)},
	}

	result, _ := svc.ComputeAvailability(context.Background(), uuid.New(), intervals)
	if !result["ends-at-start"] {
		t.Error("interval ending exactly at busy start should be available")
	}
	if !result["starts-at-end"] {
		t.Error("interval starting exactly at busy end should be available")
	}
}

func TestComputeAvailabilityFailOpen(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("token revoked")}
	svc := NewAvailabilityService(provider)

	intervals := []entity.Interval{
		{ID: "a", Start: at(9), End: at(10)},
		{ID: "b", Start: at(10), End: at(11)},
	}

	result, warning := svc.ComputeAvailability(context.Background(), uuid.New(), intervals)
	if warning == "" {
		t.Fatal("expected a warning when the provider fails")
	}
	for _, id := range []string{"a", "b"} {
		if !result[id] {
			t.Errorf("interval %s should be treated as available on provider failure", id)
		}
	}
}

func TestComputeAvailabilitySingleProviderCall(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewAvailabilityService(provider)

	intervals := make([]entity.Interval, 0, 20)
	for i := 0; i < 20; i++ {
		start := at(8).Add(time.Duration(i) * time.Hour)
		intervals = append(intervals, entity.Interval{
			ID:    fmt.Sprintf("slot-%d", i),
			Start: start,
			End:   start.Add(time.Hour),
		})
	}

	svc.ComputeAvailability(context.Background(), uuid.New(), intervals)
	if provider.calls != 1 {
		t.Errorf("expected exactly one provider call, got %d", provider.calls)
	}
}

func TestComputeAvailabilityEmptyInput(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewAvailabilityService(provider)

	result, warning := svc.ComputeAvailability(context.Background(), uuid.New(), nil)
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}
	if provider.calls != 0 {
		t.Error("provider should not be called for empty input")
	}
}
