package entity

import (
	"time"

	"realite-api/core/entity"

	"github.com/google/uuid"
)

type Group struct {
	Name string `db:"name"`

	Description string `db:"description"`

	OwnerID uuid.UUID `db:"owner_id"`

	entity.BaseEntity
}

// GroupMember links a user to a group. The owner is also a member row.
type GroupMember struct {
	ID        uuid.UUID `db:"id"`
	GroupID   uuid.UUID `db:"group_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type PaginatedGroupResponse = entity.Pagination[Group]
