package repository

import (
	"context"
	"database/sql"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/modules/suggestion/entity"

	"github.com/google/uuid"
)

type SuggestionRepository interface {
	GetSuggestionByID(ctx context.Context, id uuid.UUID) (*entity.Suggestion, error)
	GetSuggestionByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Suggestion, error)
	GetSuggestionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error)
	// UpsertSuggestion refreshes score and reason for the (user, event) pair
	// but never touches a status the user already decided.
	UpsertSuggestion(ctx context.Context, suggestion *entity.Suggestion) (*entity.Suggestion, error)
	UpdateSuggestion(ctx context.Context, suggestion *entity.Suggestion) error
}

type suggestionRepository struct {
	DB database.Database
}

func NewSuggestionRepository(db database.Database) SuggestionRepository {
	return &suggestionRepository{DB: db}
}

const suggestionColumns = `id, user_id, event_id, score, reason, status, decision_reasons, decision_note, calendar_event_id, created_at, updated_at`

func (r *suggestionRepository) GetSuggestionByID(ctx context.Context, id uuid.UUID) (*entity.Suggestion, error) {
	var suggestion entity.Suggestion
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`
	err := r.DB.GetContext(ctx, &suggestion, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SuggestionRepository:GetSuggestionByID", err)
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepository) GetSuggestionByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*entity.Suggestion, error) {
	var suggestion entity.Suggestion
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE user_id = $1 AND event_id = $2`
	err := r.DB.GetContext(ctx, &suggestion, query, userID, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SuggestionRepository:GetSuggestionByUserAndEvent", err)
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepository) GetSuggestionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE user_id = $1
		ORDER BY score DESC, created_at DESC
	`
	var suggestions []entity.Suggestion
	err := r.DB.SelectContext(ctx, &suggestions, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.Suggestion{}, nil
		}
		logger.Error("SuggestionRepository:GetSuggestionsByUserID", err)
		return nil, err
	}
	return suggestions, nil
}

func (r *suggestionRepository) UpsertSuggestion(ctx context.Context, suggestion *entity.Suggestion) (*entity.Suggestion, error) {
	query := `
		INSERT INTO suggestions (user_id, event_id, score, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, event_id) DO UPDATE
		SET score = EXCLUDED.score,
		    reason = EXCLUDED.reason,
		    updated_at = now()
		RETURNING ` + suggestionColumns
	var saved entity.Suggestion
	err := r.DB.GetContext(ctx, &saved, query,
		suggestion.UserID,
		suggestion.EventID,
		suggestion.Score,
		suggestion.Reason,
		suggestion.Status,
	)
	if err != nil {
		logger.Error("SuggestionRepository:UpsertSuggestion", err)
		return nil, err
	}
	return &saved, nil
}

func (r *suggestionRepository) UpdateSuggestion(ctx context.Context, suggestion *entity.Suggestion) error {
	query := `
		UPDATE suggestions
		SET status = $1, decision_reasons = $2, decision_note = $3, calendar_event_id = $4, updated_at = now()
		WHERE id = $5
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query,
		suggestion.Status,
		suggestion.DecisionReasons,
		suggestion.DecisionNote,
		suggestion.CalendarEventID,
		suggestion.ID,
	); err != nil {
		logger.Error("SuggestionRepository:UpdateSuggestion", err)
		return err
	}
	return nil
}
