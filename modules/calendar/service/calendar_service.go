package service

import (
	"context"
	"encoding/json"
	"time"

	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/core/queue"
	"realite-api/modules/calendar/dto"
	"realite-api/modules/calendar/entity"
	"realite-api/modules/calendar/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/oauth2"
)

type CalendarService interface {
	ConnectGoogle(ctx context.Context, userID uuid.UUID, authCode string) (*dto.CalendarConnectionResponse, *errors.AppError)
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError
	SetAutoInsert(ctx context.Context, userID uuid.UUID, enabled bool) *errors.AppError
	TriggerSync(ctx context.Context, userID uuid.UUID, force bool) *errors.AppError
	HandleSyncTask(ctx context.Context, task *asynq.Task) error
}

type calendarService struct {
	repo     repository.CalendarRepository
	provider Provider
	registry *SyncRegistry
	qc       *queue.Client
}

func NewCalendarService(repo repository.CalendarRepository, provider Provider, registry *SyncRegistry, qc *queue.Client) CalendarService {
	return &calendarService{
		repo:     repo,
		provider: provider,
		registry: registry,
		qc:       qc,
	}
}

// ConnectGoogle exchanges the OAuth authorization code and stores (or
// refreshes) the user's Google connection.
func (s *calendarService) ConnectGoogle(ctx context.Context, userID uuid.UUID, authCode string) (*dto.CalendarConnectionResponse, *errors.AppError) {
	token, err := oauthConfig().Exchange(ctx, authCode, oauth2.AccessTypeOffline)
	if err != nil {
		logger.Error("CalendarService:ConnectGoogle:Exchange:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrCollaborator, "Google token exchange failed", err)
	}

	email, err := fetchGoogleEmail(ctx, token.AccessToken)
	if err != nil {
		logger.Error("CalendarService:ConnectGoogle:FetchEmail:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrCollaborator, "Failed to read Google account info", err)
	}

	existing, _ := s.repo.GetConnectionByUserAndProvider(ctx, userID, entity.ProviderGoogle)
	if existing != nil {
		existing.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			existing.RefreshToken = token.RefreshToken
		}
		existing.TokenExpiresAt = token.Expiry
		existing.CalendarEmail = email
		existing.IsActive = true

		if err := s.repo.UpdateConnection(ctx, existing); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update calendar connection", err)
		}
		return dto.ToConnectionResponse(existing), nil
	}

	conn := &entity.CalendarConnection{
		UserID:         userID,
		Provider:       entity.ProviderGoogle,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		CalendarEmail:  email,
		IsActive:       true,
	}

	created, err := s.repo.CreateConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save calendar connection", err)
	}

	return dto.ToConnectionResponse(created), nil
}

func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get calendar connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for i := range connections {
		result = append(result, *dto.ToConnectionResponse(&connections[i]))
	}
	return result, nil
}

func (s *calendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	if err := s.repo.DeleteConnection(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to disconnect calendar", err)
	}
	return nil
}

func (s *calendarService) SetAutoInsert(ctx context.Context, userID uuid.UUID, enabled bool) *errors.AppError {
	if err := s.repo.SetAutoInsert(ctx, userID, enabled); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to update auto-insert setting", err)
	}
	return nil
}

// TriggerSync enqueues a background refresh of the user's busy windows.
func (s *calendarService) TriggerSync(ctx context.Context, userID uuid.UUID, force bool) *errors.AppError {
	if s.qc == nil {
		return s.runSync(ctx, userID, force)
	}
	if err := s.qc.EnqueueSync(ctx, userID, force); err != nil {
		// Queue down: run inline rather than dropping the trigger.
		return s.runSync(ctx, userID, force)
	}
	return nil
}

// HandleSyncTask is the asynq handler for queue.TaskCalendarSync.
func (s *calendarService) HandleSyncTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.SyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("CalendarService:HandleSyncTask:BadPayload", err)
		return nil // malformed payloads are not retryable
	}

	if appErr := s.runSync(ctx, payload.UserID, payload.Force); appErr != nil {
		logger.Warn("CalendarService:HandleSyncTask:SyncFailed", "user_id", payload.UserID, "error", appErr)
	}
	return nil
}

// runSync refreshes the busy-window cache for the sync lookahead span,
// deduplicated through the registry.
func (s *calendarService) runSync(ctx context.Context, userID uuid.UUID, force bool) *errors.AppError {
	handle, result := s.registry.Begin(userID, force)
	switch result {
	case SyncCooldown:
		logger.Info("CalendarService:runSync:Cooldown", "user_id", userID)
		return nil
	case SyncJoined:
		if err := handle.Wait(ctx); err != nil {
			return errors.NewAppError(errors.ErrCollaborator, "calendar sync failed", err)
		}
		return nil
	}

	now := time.Now()
	_, err := s.provider.GetBusyWindows(ctx, userID, now, now.AddDate(0, 0, constants.SyncLookaheadDays))
	handle.Finish(err)

	if err != nil {
		logger.Warn("CalendarService:runSync:ProviderError", "user_id", userID, "error", err)
		return errors.NewAppError(errors.ErrCollaborator, "calendar sync failed", err)
	}

	logger.Info("CalendarService:runSync:Success", "user_id", userID)
	return nil
}
