package repository

import (
	"context"
	"database/sql"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/modules/suggestion/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PreferenceRepository interface {
	// GetWeights returns the existing rows among tagKeys, keyed by tag.
	GetWeights(ctx context.Context, userID uuid.UUID, tagKeys []string) (map[string]entity.PreferenceWeight, error)
	// AdjustWeight adds delta to the weight for (userID, tagKey), creating
	// the row at delta when absent, and increments votes by one.
	AdjustWeight(ctx context.Context, userID uuid.UUID, tagKey string, delta float64) error
}

type preferenceRepository struct {
	DB database.Database
}

func NewPreferenceRepository(db database.Database) PreferenceRepository {
	return &preferenceRepository{DB: db}
}

func (r *preferenceRepository) GetWeights(ctx context.Context, userID uuid.UUID, tagKeys []string) (map[string]entity.PreferenceWeight, error) {
	result := make(map[string]entity.PreferenceWeight, len(tagKeys))
	if len(tagKeys) == 0 {
		return result, nil
	}

	query := `
		SELECT id, user_id, tag_key, weight, votes, created_at, updated_at
		FROM preference_weights
		WHERE user_id = $1 AND tag_key = ANY($2)
	`
	var rows []entity.PreferenceWeight
	err := r.DB.SelectContext(ctx, &rows, query, userID, pq.Array(tagKeys))
	if err != nil {
		if err == sql.ErrNoRows {
			return result, nil
		}
		logger.Error("PreferenceRepository:GetWeights", err)
		return nil, err
	}

	for _, row := range rows {
		result[row.TagKey] = row
	}
	return result, nil
}

func (r *preferenceRepository) AdjustWeight(ctx context.Context, userID uuid.UUID, tagKey string, delta float64) error {
	query := `
		INSERT INTO preference_weights (user_id, tag_key, weight, votes)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, tag_key) DO UPDATE
		SET weight = preference_weights.weight + EXCLUDED.weight,
		    votes = preference_weights.votes + 1,
		    updated_at = now()
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query, userID, tagKey, delta); err != nil {
		logger.Error("PreferenceRepository:AdjustWeight", err)
		return err
	}
	return nil
}
