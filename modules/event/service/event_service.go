package service

import (
	"context"
	"fmt"
	"time"

	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/core/storage"
	"realite-api/core/utils"
	"realite-api/modules/event/dto"
	"realite-api/modules/event/entity"
	"realite-api/modules/event/repository"

	"github.com/google/uuid"
)

// groupDirectory is the slice of the group module this service depends on.
type groupDirectory interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError)
	GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, *errors.AppError)
}

type EventService interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEventByID(ctx context.Context, eventID, requesterID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	// VisibleEvents feeds the recommendation pipeline.
	VisibleEvents(ctx context.Context, userID uuid.UUID) ([]entity.Event, *errors.AppError)
	// EventByID is the entity-level lookup other modules use.
	EventByID(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError)
}

type eventService struct {
	repo   repository.EventRepository
	groups groupDirectory
	media  storage.MediaStore
	now    func() time.Time
}

func NewEventService(repo repository.EventRepository, groups groupDirectory, media storage.MediaStore) EventService {
	return &eventService{
		repo:   repo,
		groups: groups,
		media:  media,
		now:    time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if !req.EndsAt.After(req.StartsAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "endsAt must be after startsAt", nil)
	}

	event := &entity.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Tags:        req.Tags,
		Visibility:  req.Visibility,
		CreatedBy:   userID,
	}

	switch req.Visibility {
	case entity.VisibilityPublic:
		// no group binding
	case entity.VisibilityGroup:
		if req.GroupID == nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "groupId is required for group events", nil)
		}
		isMember, appErr := s.groups.IsMember(ctx, *req.GroupID, userID)
		if appErr != nil {
			return nil, appErr
		}
		if !isMember {
			return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
		}
		event.GroupID = req.GroupID
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "visibility must be public or group", nil)
	}

	if req.PhotoBase64 != "" {
		url, appErr := s.uploadPhoto(ctx, req.PhotoBase64)
		if appErr != nil {
			return nil, appErr
		}
		event.PhotoURL = url
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", err)
	}

	logger.Info("EventService:CreateEvent:Success", "event_id", created.ID, "visibility", created.Visibility)
	return dto.ToEventResponse(created), nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID, requesterID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if event.Visibility == entity.VisibilityGroup && event.CreatedBy != requesterID {
		isMember, appErr := s.groups.IsMember(ctx, *event.GroupID, requesterID)
		if appErr != nil {
			return nil, appErr
		}
		if !isMember {
			return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
		}
	}

	return dto.ToEventResponse(event), nil
}

func (s *eventService) GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.GetEventsByCreator(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}

	result := make([]dto.EventResponse, len(events))
	for i := range events {
		result[i] = *dto.ToEventResponse(&events[i])
	}
	return result, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the creator may update this event", nil)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if req.Tags != nil {
		event.Tags = req.Tags
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "endsAt must be after startsAt", nil)
	}

	if req.PhotoBase64 != "" {
		url, appErr := s.uploadPhoto(ctx, req.PhotoBase64)
		if appErr != nil {
			return nil, appErr
		}
		event.PhotoURL = url
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update event failed", err)
	}

	return dto.ToEventResponse(event), nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.CreatedBy != userID {
		return errors.NewAppError(errors.ErrForbidden, "only the creator may delete this event", nil)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete event failed", err)
	}
	return nil
}

// VisibleEvents returns the candidate pool for recommendations: upcoming
// public events plus group events from the user's groups, excluding the
// user's own.
func (s *eventService) VisibleEvents(ctx context.Context, userID uuid.UUID) ([]entity.Event, *errors.AppError) {
	groupIDs, appErr := s.groups.GroupIDsForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	events, err := s.repo.GetVisibleEvents(ctx, userID, groupIDs, s.now())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get visible events failed", err)
	}
	return events, nil
}

func (s *eventService) EventByID(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}

func (s *eventService) uploadPhoto(ctx context.Context, base64Src string) (string, *errors.AppError) {
	if s.media == nil {
		return "", errors.NewAppError(errors.ErrInvalidInput, "photo upload is not configured", nil)
	}

	key := fmt.Sprintf("events/%s", utils.GenerateID())
	url, err := s.media.UploadBase64Image(ctx, base64Src, key)
	if err != nil {
		logger.Error("EventService:uploadPhoto", err)
		return "", errors.NewAppError(errors.ErrCreateFailed, "photo upload failed", err)
	}
	return url, nil
}
