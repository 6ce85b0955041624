package repository

import (
	"context"
	"database/sql"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/modules/dating/entity"

	"github.com/google/uuid"
)

type DatingRepository interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.DatingProfile, error)
	UpsertProfile(ctx context.Context, profile *entity.DatingProfile) (*entity.DatingProfile, error)
}

type datingRepository struct {
	DB database.Database
}

func NewDatingRepository(db database.Database) DatingRepository {
	return &datingRepository{DB: db}
}

const profileColumns = `id, user_id, enabled, birth_year, gender, is_single, sought_genders, sought_age_min, sought_age_max, sought_only_singles, created_at, updated_at`

func (r *datingRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.DatingProfile, error) {
	var profile entity.DatingProfile
	query := `SELECT ` + profileColumns + ` FROM dating_profiles WHERE user_id = $1`
	err := r.DB.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DatingRepository:GetProfileByUserID", err)
		return nil, err
	}
	return &profile, nil
}

func (r *datingRepository) UpsertProfile(ctx context.Context, profile *entity.DatingProfile) (*entity.DatingProfile, error) {
	query := `
		INSERT INTO dating_profiles (user_id, enabled, birth_year, gender, is_single, sought_genders, sought_age_min, sought_age_max, sought_only_singles)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    birth_year = EXCLUDED.birth_year,
		    gender = EXCLUDED.gender,
		    is_single = EXCLUDED.is_single,
		    sought_genders = EXCLUDED.sought_genders,
		    sought_age_min = EXCLUDED.sought_age_min,
		    sought_age_max = EXCLUDED.sought_age_max,
		    sought_only_singles = EXCLUDED.sought_only_singles,
		    updated_at = now()
		RETURNING ` + profileColumns
	var saved entity.DatingProfile
	err := r.DB.GetContext(ctx, &saved, query,
		profile.UserID,
		profile.Enabled,
		profile.BirthYear,
		profile.Gender,
		profile.IsSingle,
		profile.SoughtGenders,
		profile.SoughtAgeMin,
		profile.SoughtAgeMax,
		profile.SoughtOnlySingles,
	)
	if err != nil {
		logger.Error("DatingRepository:UpsertProfile", err)
		return nil, err
	}
	return &saved, nil
}
