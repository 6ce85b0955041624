package entity

import (
	"realite-api/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Gender values.
const (
	GenderWoman     = "woman"
	GenderMan       = "man"
	GenderNonBinary = "non_binary"
)

// ValidGender reports whether g is one of the enumerated gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderWoman, GenderMan, GenderNonBinary:
		return true
	}
	return false
}

// DatingProfile holds a user's dating settings. A profile exists per user;
// dating stays locked until every unlock requirement is satisfied.
type DatingProfile struct {
	UserID uuid.UUID `db:"user_id"`

	Enabled bool `db:"enabled"`

	// BirthYear is nil until the user provides it.
	BirthYear *int `db:"birth_year"`

	Gender string `db:"gender"`

	IsSingle bool `db:"is_single"`

	SoughtGenders pq.StringArray `db:"sought_genders"`

	SoughtAgeMin int `db:"sought_age_min"`

	SoughtAgeMax int `db:"sought_age_max"`

	SoughtOnlySingles bool `db:"sought_only_singles"`

	entity.BaseEntity
}
