package service

import (
	"context"
	"fmt"
	"time"

	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/core/params"
	"realite-api/core/utils"
	"realite-api/modules/notification/dto"
	"realite-api/modules/notification/entity"
	"realite-api/modules/notification/repository"

	"github.com/google/uuid"
)

// NotificationService persists in-app notices and serves the user's inbox.
// The meeting negotiation uses it as its invitation and outcome channel.
type NotificationService interface {
	SendInvitation(ctx context.Context, participantID, planID uuid.UUID, title string, slotStart, slotEnd, deadline time.Time) error
	NotifyPlanFinalized(ctx context.Context, participantID, planID uuid.UUID, title string, startsAt, endsAt time.Time) error
	NotifyPlanFailed(ctx context.Context, participantID, planID uuid.UUID, title string) error

	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) SendInvitation(ctx context.Context, participantID, planID uuid.UUID, title string, slotStart, slotEnd, deadline time.Time) error {
	return s.repo.Create(ctx, &entity.Notification{
		UserID:  participantID,
		Title:   title,
		Message: fmt.Sprintf("You are invited to %q on %s. Please respond before %s.", title, slotStart.Format(time.RFC1123), deadline.Format(time.RFC1123)),
		Type:    entity.TypeMeetingInvitation,
		Data: entity.JSONB{
			"ref":        utils.GenerateID(),
			"plan_id":    planID.String(),
			"slot_start": slotStart.Format(time.RFC3339),
			"slot_end":   slotEnd.Format(time.RFC3339),
			"deadline":   deadline.Format(time.RFC3339),
		},
	})
}

func (s *notificationService) NotifyPlanFinalized(ctx context.Context, participantID, planID uuid.UUID, title string, startsAt, endsAt time.Time) error {
	return s.repo.Create(ctx, &entity.Notification{
		UserID:  participantID,
		Title:   title,
		Message: fmt.Sprintf("%q is confirmed for %s.", title, startsAt.Format(time.RFC1123)),
		Type:    entity.TypeMeetingFinalized,
		Data: entity.JSONB{
			"plan_id":   planID.String(),
			"starts_at": startsAt.Format(time.RFC3339),
			"ends_at":   endsAt.Format(time.RFC3339),
		},
	})
}

func (s *notificationService) NotifyPlanFailed(ctx context.Context, participantID, planID uuid.UUID, title string) error {
	return s.repo.Create(ctx, &entity.Notification{
		UserID:  participantID,
		Title:   title,
		Message: fmt.Sprintf("No time could be found for %q.", title),
		Type:    entity.TypeMeetingFailed,
		Data: entity.JSONB{
			"plan_id": planID.String(),
		},
	})
}

func (s *notificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	page, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load notifications", err)
	}
	return dto.ToPaginatedNotificationResponse(page), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "invalid notification id", err)
		}
	}
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to mark notifications read", err)
	}
	logger.Info("NotificationService:MarkAsRead:Success", "user_id", userID, "count", len(ids))
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to mark notifications read", err)
	}
	return nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "failed to count unread notifications", err)
	}
	return count, nil
}
