package service

import (
	"time"

	"realite-api/core/constants"
	"realite-api/modules/dating/entity"
)

// Unlock requirement codes reported to the client.
const (
	RequirementEnabled       = "enabled"
	RequirementBirthYear     = "birth_year"
	RequirementAdult         = "adult"
	RequirementGender        = "gender"
	RequirementSingle        = "single"
	RequirementSoughtGenders = "sought_genders"
	RequirementAgeRange      = "age_range"
)

// UnlockStatus reports whether dating is active for a profile and, if not,
// which requirements are still missing.
type UnlockStatus struct {
	Unlocked            bool     `json:"unlocked"`
	MissingRequirements []string `json:"missingRequirements,omitempty"`
}

// Age derives the age used by all dating rules from the birth year alone.
func Age(birthYear int, now time.Time) int {
	return now.Year() - birthYear
}

// Evaluate checks every unlock requirement and collects all that fail, so
// the client can present the complete list at once.
func Evaluate(profile *entity.DatingProfile, now time.Time) UnlockStatus {
	var missing []string

	if profile == nil {
		return UnlockStatus{MissingRequirements: []string{
			RequirementEnabled,
			RequirementBirthYear,
			RequirementGender,
			RequirementSingle,
			RequirementSoughtGenders,
			RequirementAgeRange,
		}}
	}

	if !profile.Enabled {
		missing = append(missing, RequirementEnabled)
	}

	if profile.BirthYear == nil {
		missing = append(missing, RequirementBirthYear)
	} else if Age(*profile.BirthYear, now) < constants.DatingMinAge {
		missing = append(missing, RequirementAdult)
	}

	if profile.Gender == "" {
		missing = append(missing, RequirementGender)
	}

	if !profile.IsSingle {
		missing = append(missing, RequirementSingle)
	}

	if len(profile.SoughtGenders) == 0 || len(profile.SoughtGenders) > constants.DatingMaxSoughtGender {
		missing = append(missing, RequirementSoughtGenders)
	}

	if profile.SoughtAgeMin < constants.DatingMinAge ||
		profile.SoughtAgeMax > constants.DatingMaxAge ||
		profile.SoughtAgeMin > profile.SoughtAgeMax {
		missing = append(missing, RequirementAgeRange)
	}

	return UnlockStatus{
		Unlocked:            len(missing) == 0,
		MissingRequirements: missing,
	}
}

// IsMutualMatch reports whether two unlocked profiles match each other. The
// check is bidirectional and therefore symmetric: each side's gender must be
// sought by the other, each side's age must fall in the other's range, and
// both must be single.
func IsMutualMatch(a, b *entity.DatingProfile, now time.Time) bool {
	if !Evaluate(a, now).Unlocked || !Evaluate(b, now).Unlocked {
		return false
	}

	return accepts(a, b, now) && accepts(b, a, now)
}

// accepts reports whether seeker's criteria admit candidate.
func accepts(seeker, candidate *entity.DatingProfile, now time.Time) bool {
	if seeker.SoughtOnlySingles && !candidate.IsSingle {
		return false
	}

	sought := false
	for _, g := range seeker.SoughtGenders {
		if g == candidate.Gender {
			sought = true
			break
		}
	}
	if !sought {
		return false
	}

	age := Age(*candidate.BirthYear, now)
	return age >= seeker.SoughtAgeMin && age <= seeker.SoughtAgeMax
}
