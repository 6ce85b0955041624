package service

import (
	"context"
	"testing"
	"time"

	"realite-api/core/errors"
	"realite-api/modules/event/dto"
	"realite-api/modules/event/entity"

	"github.com/google/uuid"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	created := *event
	created.ID = uuid.New()
	f.events[created.ID] = &created
	return &created, nil
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, event *entity.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) GetEventsByCreator(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	var result []entity.Event
	for _, e := range f.events {
		if e.CreatedBy == userID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (f *fakeEventRepo) GetVisibleEvents(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, now time.Time) ([]entity.Event, error) {
	inGroups := make(map[uuid.UUID]bool, len(groupIDs))
	for _, id := range groupIDs {
		inGroups[id] = true
	}

	var result []entity.Event
	for _, e := range f.events {
		if e.CreatedBy == userID || !e.StartsAt.After(now) {
			continue
		}
		if e.Visibility == entity.VisibilityPublic || (e.GroupID != nil && inGroups[*e.GroupID]) {
			result = append(result, *e)
		}
	}
	return result, nil
}

type fakeGroups struct {
	memberships map[uuid.UUID]map[uuid.UUID]bool // groupID -> userID
}

func (f *fakeGroups) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError) {
	return f.memberships[groupID][userID], nil
}

func (f *fakeGroups) GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	var ids []uuid.UUID
	for groupID, users := range f.memberships {
		if users[userID] {
			ids = append(ids, groupID)
		}
	}
	return ids, nil
}

func eventAt(hour int) time.Time {
	return time.Date(2026, 4, 20, hour, 0, 0, 0, time.UTC)
}

func TestCreateEventRejectsInvertedTimes(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), &fakeGroups{}, nil)

	_, appErr := svc.CreateEvent(context.Background(), uuid.New(), &dto.CreateEventRequest{
		Title:      "Run",
		StartsAt:   eventAt(10),
		EndsAt:     eventAt(9),
		Visibility: entity.VisibilityPublic,
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected invalid input, got %v", appErr)
	}
}

func TestCreateGroupEventRequiresMembership(t *testing.T) {
	groupID := uuid.New()
	memberID := uuid.New()
	groups := &fakeGroups{memberships: map[uuid.UUID]map[uuid.UUID]bool{
		groupID: {memberID: true},
	}}
	svc := NewEventService(newFakeEventRepo(), groups, nil)

	req := &dto.CreateEventRequest{
		Title:      "Board games",
		StartsAt:   eventAt(18),
		EndsAt:     eventAt(21),
		Visibility: entity.VisibilityGroup,
		GroupID:    &groupID,
	}

	if _, appErr := svc.CreateEvent(context.Background(), uuid.New(), req); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("expected forbidden for non-member, got %v", appErr)
	}

	if _, appErr := svc.CreateEvent(context.Background(), memberID, req); appErr != nil {
		t.Errorf("member should be allowed to create: %v", appErr)
	}
}

func TestVisibleEventsExcludesOwnAndStarted(t *testing.T) {
	repo := newFakeEventRepo()
	userID := uuid.New()
	otherID := uuid.New()

	// Another user's upcoming public event: visible.
	repo.CreateEvent(context.Background(), &entity.Event{
		Title: "Visible", StartsAt: eventAt(18), EndsAt: eventAt(20),
		Visibility: entity.VisibilityPublic, CreatedBy: otherID,
	})
	// The user's own event: hidden.
	repo.CreateEvent(context.Background(), &entity.Event{
		Title: "Mine", StartsAt: eventAt(18), EndsAt: eventAt(20),
		Visibility: entity.VisibilityPublic, CreatedBy: userID,
	})
	// Already started: hidden.
	repo.CreateEvent(context.Background(), &entity.Event{
		Title: "Started", StartsAt: eventAt(8), EndsAt: eventAt(20),
		Visibility: entity.VisibilityPublic, CreatedBy: otherID,
	})

	svc := NewEventService(repo, &fakeGroups{}, nil).(*eventService)
	svc.now = func() time.Time { return eventAt(12) }

	events, appErr := svc.VisibleEvents(context.Background(), userID)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(events) != 1 || events[0].Title != "Visible" {
		t.Errorf("expected only the upcoming foreign event, got %v", events)
	}
}

func TestUpdateEventOnlyCreator(t *testing.T) {
	repo := newFakeEventRepo()
	creatorID := uuid.New()
	created, _ := repo.CreateEvent(context.Background(), &entity.Event{
		Title: "Hike", StartsAt: eventAt(9), EndsAt: eventAt(12),
		Visibility: entity.VisibilityPublic, CreatedBy: creatorID,
	})

	svc := NewEventService(repo, &fakeGroups{}, nil)

	title := "Long hike"
	if _, appErr := svc.UpdateEvent(context.Background(), created.ID, uuid.New(), &dto.UpdateEventRequest{Title: &title}); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Errorf("expected forbidden for non-creator, got %v", appErr)
	}

	updated, appErr := svc.UpdateEvent(context.Background(), created.ID, creatorID, &dto.UpdateEventRequest{Title: &title})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Title != "Long hike" {
		t.Errorf("title: got %q", updated.Title)
	}
}
