package service

import (
	"context"
	"time"

	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/modules/dating/dto"
	"realite-api/modules/dating/entity"
	"realite-api/modules/dating/repository"

	"github.com/google/uuid"
)

type DatingService interface {
	GetSettings(ctx context.Context, userID uuid.UUID) (*dto.DatingSettingsResponse, *errors.AppError)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateDatingSettingsRequest) (*dto.DatingSettingsResponse, *errors.AppError)
	// IsUnlocked and IsMutualCandidate are the collaborator surface the
	// suggestion engine uses to decide whether dating-tagged events may be
	// recommended, and to whom.
	IsUnlocked(ctx context.Context, userID uuid.UUID) (bool, *errors.AppError)
	IsMutualCandidate(ctx context.Context, viewerID, creatorID uuid.UUID) (bool, *errors.AppError)
}

type datingService struct {
	repo repository.DatingRepository
	now  func() time.Time
}

func NewDatingService(repo repository.DatingRepository) DatingService {
	return &datingService{repo: repo, now: time.Now}
}

func (s *datingService) GetSettings(ctx context.Context, userID uuid.UUID) (*dto.DatingSettingsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get dating settings failed", err)
	}

	status := Evaluate(profile, s.now())
	return dto.ToDatingSettingsResponse(profile, status.Unlocked, status.MissingRequirements), nil
}

func (s *datingService) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateDatingSettingsRequest) (*dto.DatingSettingsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get dating settings failed", err)
	}
	if profile == nil {
		profile = &entity.DatingProfile{
			UserID:       userID,
			SoughtAgeMin: constants.DatingMinAge,
			SoughtAgeMax: constants.DatingMaxAge,
		}
	}

	if req.Enabled != nil {
		profile.Enabled = *req.Enabled
	}
	if req.BirthYear != nil {
		profile.BirthYear = req.BirthYear
	}
	if req.Gender != nil {
		if !entity.ValidGender(*req.Gender) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "gender must be woman, man or non_binary", nil)
		}
		profile.Gender = *req.Gender
	}
	if req.IsSingle != nil {
		profile.IsSingle = *req.IsSingle
	}
	if req.SoughtGenders != nil {
		if len(req.SoughtGenders) > constants.DatingMaxSoughtGender {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "too many sought genders", nil)
		}
		for _, g := range req.SoughtGenders {
			if !entity.ValidGender(g) {
				return nil, errors.NewAppError(errors.ErrInvalidInput, "sought genders must be woman, man or non_binary", nil)
			}
		}
		profile.SoughtGenders = req.SoughtGenders
	}
	if req.SoughtOnlySingles != nil {
		profile.SoughtOnlySingles = *req.SoughtOnlySingles
	}
	if req.SoughtAgeMin != nil {
		profile.SoughtAgeMin = *req.SoughtAgeMin
	}
	if req.SoughtAgeMax != nil {
		profile.SoughtAgeMax = *req.SoughtAgeMax
	}

	if profile.SoughtAgeMin < constants.DatingMinAge || profile.SoughtAgeMax > constants.DatingMaxAge || profile.SoughtAgeMin > profile.SoughtAgeMax {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "sought age range must lie within 18-99", nil)
	}
	if profile.BirthYear != nil && Age(*profile.BirthYear, s.now()) < constants.DatingMinAge {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "dating requires being an adult", nil)
	}

	saved, err := s.repo.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update dating settings failed", err)
	}

	status := Evaluate(saved, s.now())
	logger.Info("DatingService:UpdateSettings:Success", "user_id", userID, "unlocked", status.Unlocked)
	return dto.ToDatingSettingsResponse(saved, status.Unlocked, status.MissingRequirements), nil
}

func (s *datingService) IsUnlocked(ctx context.Context, userID uuid.UUID) (bool, *errors.AppError) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrGetFailed, "get dating settings failed", err)
	}
	return Evaluate(profile, s.now()).Unlocked, nil
}

// IsMutualCandidate reports whether the creator's dating event may be shown
// to the viewer. A user always sees their own events; everyone else must
// mutually match the creator.
func (s *datingService) IsMutualCandidate(ctx context.Context, viewerID, creatorID uuid.UUID) (bool, *errors.AppError) {
	if viewerID == creatorID {
		return true, nil
	}

	viewer, err := s.repo.GetProfileByUserID(ctx, viewerID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrGetFailed, "get dating settings failed", err)
	}
	creator, err := s.repo.GetProfileByUserID(ctx, creatorID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrGetFailed, "get dating settings failed", err)
	}

	return IsMutualMatch(viewer, creator, s.now()), nil
}
