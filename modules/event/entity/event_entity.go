package entity

import (
	"time"

	"realite-api/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	VisibilityPublic = "public"
	VisibilityGroup  = "group"
)

// Event is a shared calendar entry users publish for others to discover.
type Event struct {
	Title string `db:"title"`

	Description string `db:"description"`

	Location string `db:"location"`

	StartsAt time.Time `db:"starts_at"`

	EndsAt time.Time `db:"ends_at"`

	// Tags are free-form labels like "#sport" or "#alle".
	Tags pq.StringArray `db:"tags"`

	Visibility string `db:"visibility"`

	// GroupID is set only for group-visibility events.
	GroupID *uuid.UUID `db:"group_id"`

	CreatedBy uuid.UUID `db:"created_by"`

	PhotoURL string `db:"photo_url"`

	entity.BaseEntity
}

type PaginatedEventResponse = entity.Pagination[Event]
