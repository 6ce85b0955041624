package service

import (
	"context"
	"fmt"

	"realite-api/core/config"
	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	calendarEntity "realite-api/modules/calendar/entity"
	calendarService "realite-api/modules/calendar/service"
	eventEntity "realite-api/modules/event/entity"
	"realite-api/modules/suggestion/dto"
	"realite-api/modules/suggestion/entity"
	"realite-api/modules/suggestion/repository"

	"github.com/google/uuid"
)

// Consumer-side slices of the collaborating modules.
type (
	eventCatalog interface {
		VisibleEvents(ctx context.Context, userID uuid.UUID) ([]eventEntity.Event, *errors.AppError)
		EventByID(ctx context.Context, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError)
	}

	availabilityResolver interface {
		ComputeAvailability(ctx context.Context, userID uuid.UUID, intervals []calendarEntity.Interval) (map[string]bool, string)
	}

	calendarGateway interface {
		AutoInsertEnabled(ctx context.Context, userID uuid.UUID) (bool, error)
		InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req calendarService.InsertEventRequest) (string, error)
		SyncDecisionStatus(ctx context.Context, userID uuid.UUID, externalEventID, decision string) error
	}

	datingGate interface {
		IsUnlocked(ctx context.Context, userID uuid.UUID) (bool, *errors.AppError)
		IsMutualCandidate(ctx context.Context, viewerID, creatorID uuid.UUID) (bool, *errors.AppError)
	}
)

type SuggestionService interface {
	GenerateSuggestions(ctx context.Context, userID uuid.UUID) ([]dto.SuggestionResponse, []string, *errors.AppError)
	GetSuggestions(ctx context.Context, userID uuid.UUID) ([]dto.SuggestionResponse, *errors.AppError)
	ApplyDecisionFeedback(ctx context.Context, userID, suggestionID uuid.UUID, req *dto.DecisionRequest) (*dto.SuggestionResponse, *errors.AppError)
}

type suggestionService struct {
	suggestions repository.SuggestionRepository
	preferences repository.PreferenceRepository
	events      eventCatalog
	resolver    availabilityResolver
	calendar    calendarGateway
	dating      datingGate
	params      scoringParams
}

func NewSuggestionService(
	suggestions repository.SuggestionRepository,
	preferences repository.PreferenceRepository,
	events eventCatalog,
	resolver availabilityResolver,
	calendar calendarGateway,
	dating datingGate,
) SuggestionService {
	return &suggestionService{
		suggestions: suggestions,
		preferences: preferences,
		events:      events,
		resolver:    resolver,
		calendar:    calendar,
		dating:      dating,
		params:      defaultScoringParams(),
	}
}

// GenerateSuggestions runs the whole recommendation pipeline for one user:
// candidate pool, availability batch, scoring, threshold cut, upsert, and
// optional auto-insert. The returned warnings report degraded collaborators
// without failing the batch.
func (s *suggestionService) GenerateSuggestions(ctx context.Context, userID uuid.UUID) ([]dto.SuggestionResponse, []string, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	candidates, appErr := s.events.VisibleEvents(ctx, userID)
	if appErr != nil {
		return nil, nil, appErr
	}

	var warnings []string

	candidates, appErr = s.filterDating(ctx, userID, candidates)
	if appErr != nil {
		return nil, nil, appErr
	}

	if len(candidates) == 0 {
		return []dto.SuggestionResponse{}, warnings, nil
	}

	// One availability batch for every candidate.
	intervals := make([]calendarEntity.Interval, len(candidates))
	for i, event := range candidates {
		intervals[i] = calendarEntity.Interval{
			ID:    event.ID.String(),
			Start: event.StartsAt,
			End:   event.EndsAt,
		}
	}
	available, warning := s.resolver.ComputeAvailability(ctx, userID, intervals)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	free := candidates[:0]
	for _, event := range candidates {
		if available[event.ID.String()] {
			free = append(free, event)
		}
	}

	weights, err := s.preferences.GetWeights(ctx, userID, allTagKeys(free))
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "load preference weights failed", err)
	}

	autoInsert, err := s.calendar.AutoInsertEnabled(ctx, userID)
	if err != nil {
		logger.Warn("SuggestionService:GenerateSuggestions:AutoInsertLookup", "user_id", userID, "error", err)
		autoInsert = false
	}

	var result []dto.SuggestionResponse
	for i := range free {
		event := &free[i]

		scoreValue := s.params.score(event, weights)
		if scoreValue < s.params.minRelevance {
			continue
		}

		saved, err := s.suggestions.UpsertSuggestion(ctx, &entity.Suggestion{
			UserID:  userID,
			EventID: event.ID,
			Score:   scoreValue,
			Reason:  scoreReason(event, scoreValue),
			Status:  entity.StatusPending,
		})
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrCreateFailed, "save suggestion failed", err)
		}

		if autoInsert && saved.Status == entity.StatusPending && saved.CalendarEventID == "" && scoreValue >= s.params.autoInsertThreshold {
			s.autoInsertSuggestion(ctx, userID, saved, event)
		}

		result = append(result, *dto.ToSuggestionResponse(saved))
	}

	logger.Info("SuggestionService:GenerateSuggestions:Success", "user_id", userID, "count", len(result))
	if result == nil {
		result = []dto.SuggestionResponse{}
	}
	return result, warnings, nil
}

// filterDating drops dating-tagged events unless the user's dating mode is
// unlocked AND the event's creator is a mutual match. The unlock gate is
// consulted at most once per batch and the match gate at most once per
// creator.
func (s *suggestionService) filterDating(ctx context.Context, userID uuid.UUID, candidates []eventEntity.Event) ([]eventEntity.Event, *errors.AppError) {
	hasDating := false
	for i := range candidates {
		if hasTag(&candidates[i], constants.DatingTag) {
			hasDating = true
			break
		}
	}
	if !hasDating {
		return candidates, nil
	}

	unlocked, appErr := s.dating.IsUnlocked(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	matched := make(map[uuid.UUID]bool)
	kept := candidates[:0]
	for i := range candidates {
		event := &candidates[i]
		if !hasTag(event, constants.DatingTag) {
			kept = append(kept, candidates[i])
			continue
		}
		if !unlocked {
			continue
		}

		ok, seen := matched[event.CreatedBy]
		if !seen {
			ok, appErr = s.dating.IsMutualCandidate(ctx, userID, event.CreatedBy)
			if appErr != nil {
				return nil, appErr
			}
			matched[event.CreatedBy] = ok
		}
		if ok {
			kept = append(kept, candidates[i])
		}
	}
	return kept, nil
}

// autoInsertSuggestion writes the calendar entry for a high-confidence
// suggestion. Failures are logged and swallowed; surfacing the suggestion
// outranks inserting it.
func (s *suggestionService) autoInsertSuggestion(ctx context.Context, userID uuid.UUID, suggestion *entity.Suggestion, event *eventEntity.Event) {
	description := calendarService.BuildRealiteCalendarMetadata(calendarService.CalendarMetadata{
		Description: event.Description,
		URL:         suggestionURL(suggestion.ID),
		Type:        "suggestion",
	})

	externalID, err := s.calendar.InsertCalendarEvent(ctx, userID, calendarService.InsertEventRequest{
		Title:       event.Title,
		Description: description,
		Location:    event.Location,
		Start:       event.StartsAt,
		End:         event.EndsAt,
	})
	if err != nil {
		logger.Warn("SuggestionService:autoInsertSuggestion:InsertFailed", "suggestion_id", suggestion.ID, "error", err)
		return
	}

	suggestion.CalendarEventID = externalID
	suggestion.Status = entity.StatusCalendarInserted
	if err := s.suggestions.UpdateSuggestion(ctx, suggestion); err != nil {
		logger.Error("SuggestionService:autoInsertSuggestion:SaveFailed", "suggestion_id", suggestion.ID, "error", err)
	}
}

func (s *suggestionService) GetSuggestions(ctx context.Context, userID uuid.UUID) ([]dto.SuggestionResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	suggestions, err := s.suggestions.GetSuggestionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get suggestions failed", err)
	}

	result := make([]dto.SuggestionResponse, len(suggestions))
	for i := range suggestions {
		result[i] = *dto.ToSuggestionResponse(&suggestions[i])
	}
	return result, nil
}

// ApplyDecisionFeedback records the user's accept/decline, adjusts the
// learned weights for every tag the event carries or derives, and mirrors
// the decision to an auto-inserted calendar entry when one exists.
func (s *suggestionService) ApplyDecisionFeedback(ctx context.Context, userID, suggestionID uuid.UUID, req *dto.DecisionRequest) (*dto.SuggestionResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if len(req.Note) > constants.DecisionNoteMaxLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("note must be at most %d characters", constants.DecisionNoteMaxLength), nil)
	}
	decision := entity.SuggestionStatus(req.Decision)
	if decision == entity.StatusDeclined {
		for _, code := range req.Reasons {
			if !entity.ValidDeclineReason(code) {
				return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown decline reason %q", code), nil)
			}
		}
	}

	suggestion, err := s.suggestions.GetSuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get suggestion failed", err)
	}
	if suggestion == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "suggestion not found", nil)
	}
	if suggestion.UserID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "suggestion belongs to another user", nil)
	}

	if err := suggestion.ApplyDecision(decision, req.Reasons, req.Note); err != nil {
		return nil, errors.NewAppError(errors.ErrStateConflict, err.Error(), err)
	}

	if err := s.suggestions.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "save decision failed", err)
	}

	event, appErr := s.events.EventByID(ctx, suggestion.EventID)
	if appErr != nil {
		// The decision is recorded; learning is best effort.
		logger.Warn("SuggestionService:ApplyDecisionFeedback:EventGone", "suggestion_id", suggestionID, "error", appErr)
		return dto.ToSuggestionResponse(suggestion), nil
	}

	delta := s.params.learningRate
	if decision == entity.StatusDeclined {
		delta = -s.params.learningRate
	}
	for _, tag := range feedbackTags(event) {
		if err := s.preferences.AdjustWeight(ctx, userID, tag, delta); err != nil {
			logger.Error("SuggestionService:ApplyDecisionFeedback:AdjustWeight", "tag", tag, "error", err)
		}
	}

	if suggestion.CalendarEventID != "" {
		go s.syncDecision(userID, suggestion.CalendarEventID, string(decision))
	}

	logger.Info("SuggestionService:ApplyDecisionFeedback:Success", "suggestion_id", suggestionID, "decision", decision)
	return dto.ToSuggestionResponse(suggestion), nil
}

// syncDecision mirrors the decision to the provider entry in the background.
func (s *suggestionService) syncDecision(userID uuid.UUID, externalEventID, decision string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := s.calendar.SyncDecisionStatus(ctx, userID, externalEventID, decision); err != nil {
		logger.Warn("SuggestionService:syncDecision:Failed", "event_id", externalEventID, "error", err)
	}
}

func allTagKeys(events []eventEntity.Event) []string {
	seen := make(map[string]bool)
	var keys []string
	for i := range events {
		for _, tag := range feedbackTags(&events[i]) {
			if !seen[tag] {
				seen[tag] = true
				keys = append(keys, tag)
			}
		}
	}
	return keys
}

func hasTag(event *eventEntity.Event, tag string) bool {
	for _, t := range event.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func suggestionURL(id uuid.UUID) string {
	base := "http://localhost:7070"
	if cfg, ok := config.GetSafe(); ok && cfg.Server.BaseURL != "" {
		base = cfg.Server.BaseURL
	}
	return fmt.Sprintf("%s/suggestions/%s", base, id)
}
