package dto

import (
	"realite-api/modules/dating/entity"
)

type UpdateDatingSettingsRequest struct {
	Enabled       *bool    `json:"enabled"`
	BirthYear     *int     `json:"birthYear"`
	Gender        *string  `json:"gender"`
	IsSingle      *bool    `json:"isSingle"`
	SoughtGenders []string `json:"soughtGenders"`
	SoughtAgeMin  *int     `json:"soughtAgeMin"`
	SoughtAgeMax  *int     `json:"soughtAgeMax"`
	SoughtOnlySingles *bool `json:"soughtOnlySingles"`
}

type DatingSettingsResponse struct {
	Enabled             bool     `json:"enabled"`
	BirthYear           *int     `json:"birthYear,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	IsSingle            bool     `json:"isSingle"`
	SoughtGenders       []string `json:"soughtGenders"`
	SoughtAgeMin        int      `json:"soughtAgeMin"`
	SoughtAgeMax        int      `json:"soughtAgeMax"`
	SoughtOnlySingles   bool     `json:"soughtOnlySingles"`
	Unlocked            bool     `json:"unlocked"`
	MissingRequirements []string `json:"missingRequirements,omitempty"`
}

func ToDatingSettingsResponse(profile *entity.DatingProfile, unlocked bool, missing []string) *DatingSettingsResponse {
	resp := &DatingSettingsResponse{
		SoughtGenders:       []string{},
		Unlocked:            unlocked,
		MissingRequirements: missing,
	}
	if profile != nil {
		resp.Enabled = profile.Enabled
		resp.BirthYear = profile.BirthYear
		resp.Gender = profile.Gender
		resp.IsSingle = profile.IsSingle
		if profile.SoughtGenders != nil {
			resp.SoughtGenders = profile.SoughtGenders
		}
		resp.SoughtAgeMin = profile.SoughtAgeMin
		resp.SoughtAgeMax = profile.SoughtAgeMax
		resp.SoughtOnlySingles = profile.SoughtOnlySingles
	}
	return resp
}
