package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventsByCreator(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	// GetVisibleEvents returns upcoming events the user may be recommended:
	// public ones plus group ones for the given group ids, never the user's
	// own, never events that already started.
	GetVisibleEvents(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, now time.Time) ([]entity.Event, error)
}

type eventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, title, description, location, starts_at, ends_at, tags, visibility, group_id, created_by, photo_url, created_at, updated_at`

func (r *eventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, description, location, starts_at, ends_at, tags, visibility, group_id, created_by, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns
	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Tags,
		event.Visibility,
		event.GroupID,
		event.CreatedBy,
		event.PhotoURL,
	)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}
	return &created, nil
}

func (r *eventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5,
		    tags = $6, visibility = $7, group_id = $8, photo_url = $9, updated_at = now()
		WHERE id = $10
	`
	result, err := r.DB.SQLx().ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Tags,
		event.Visibility,
		event.GroupID,
		event.PhotoURL,
		event.ID,
	)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("EventRepository:UpdateEvent - RowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event with id %s not found", event.ID)
	}
	return nil
}

func (r *eventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM events
		WHERE id = $1
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

func (r *eventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetEventsByCreator(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE created_by = $1
		ORDER BY starts_at ASC
	`
	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.Event{}, nil
		}
		logger.Error("EventRepository:GetEventsByCreator", err)
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) GetVisibleEvents(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, now time.Time) ([]entity.Event, error) {
	ids := make([]string, len(groupIDs))
	for i, id := range groupIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE created_by <> $1
		  AND starts_at > $2
		  AND (visibility = $3 OR (visibility = $4 AND group_id = ANY($5)))
		ORDER BY starts_at ASC
	`
	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query,
		userID,
		now,
		entity.VisibilityPublic,
		entity.VisibilityGroup,
		pq.Array(ids),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.Event{}, nil
		}
		logger.Error("EventRepository:GetVisibleEvents", err)
		return nil, err
	}
	return events, nil
}
