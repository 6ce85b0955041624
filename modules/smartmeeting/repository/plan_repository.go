package repository

import (
	"context"
	"database/sql"
	"time"

	"realite-api/core/database"
	"realite-api/core/logger"
	"realite-api/modules/smartmeeting/entity"

	"github.com/google/uuid"
)

type PlanRepository interface {
	CreatePlan(ctx context.Context, plan *entity.SmartMeetingPlan) (*entity.SmartMeetingPlan, error)
	GetPlanByID(ctx context.Context, id uuid.UUID) (*entity.SmartMeetingPlan, error)
	GetPlansByGroupID(ctx context.Context, groupID uuid.UUID) ([]entity.SmartMeetingPlan, error)
	UpdatePlan(ctx context.Context, plan *entity.SmartMeetingPlan) error
	// GetDuePlanIDs returns plans whose response deadline has passed and that
	// still await responses. The sweep feeds these back into the advancer.
	GetDuePlanIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	CreateInvitations(ctx context.Context, invitations []entity.PlanInvitation) error
	GetInvitations(ctx context.Context, planID uuid.UUID, attempt int) ([]entity.PlanInvitation, error)
	GetInvitation(ctx context.Context, planID uuid.UUID, attempt int, participantID uuid.UUID) (*entity.PlanInvitation, error)
	UpdateInvitationResponse(ctx context.Context, id uuid.UUID, response entity.InvitationResponse, respondedAt time.Time) error
	// DeclineUnresolved marks pending invitations of an attempt declined when
	// the deadline expires without quorum.
	DeclineUnresolved(ctx context.Context, planID uuid.UUID, attempt int, respondedAt time.Time) error
}

type planRepository struct {
	DB database.Database
}

func NewPlanRepository(db database.Database) PlanRepository {
	return &planRepository{DB: db}
}

const planColumns = `id, group_id, created_by, title, duration_minutes, min_accepted_participants,
	response_window_hours, search_window_start, search_window_end, slot_interval_minutes,
	max_attempts, state, current_attempt, candidate_start, candidate_end, response_deadline,
	finalized_starts_at, finalized_ends_at, created_at, updated_at`

const invitationColumns = `id, plan_id, attempt, participant_id, response, responded_at, created_at`

func (r *planRepository) CreatePlan(ctx context.Context, plan *entity.SmartMeetingPlan) (*entity.SmartMeetingPlan, error) {
	query := `
		INSERT INTO smart_meeting_plans (
			group_id, created_by, title, duration_minutes, min_accepted_participants,
			response_window_hours, search_window_start, search_window_end,
			slot_interval_minutes, max_attempts, state, current_attempt
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + planColumns
	var saved entity.SmartMeetingPlan
	err := r.DB.GetContext(ctx, &saved, query,
		plan.GroupID,
		plan.CreatedBy,
		plan.Title,
		plan.DurationMinutes,
		plan.MinAcceptedParticipants,
		plan.ResponseWindowHours,
		plan.SearchWindowStart,
		plan.SearchWindowEnd,
		plan.SlotIntervalMinutes,
		plan.MaxAttempts,
		plan.State,
		plan.CurrentAttempt,
	)
	if err != nil {
		logger.Error("PlanRepository:CreatePlan", err)
		return nil, err
	}
	return &saved, nil
}

func (r *planRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*entity.SmartMeetingPlan, error) {
	var plan entity.SmartMeetingPlan
	query := `SELECT ` + planColumns + ` FROM smart_meeting_plans WHERE id = $1`
	err := r.DB.GetContext(ctx, &plan, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PlanRepository:GetPlanByID", err)
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetPlansByGroupID(ctx context.Context, groupID uuid.UUID) ([]entity.SmartMeetingPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM smart_meeting_plans
		WHERE group_id = $1
		ORDER BY created_at DESC
	`
	var plans []entity.SmartMeetingPlan
	err := r.DB.SelectContext(ctx, &plans, query, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.SmartMeetingPlan{}, nil
		}
		logger.Error("PlanRepository:GetPlansByGroupID", err)
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) UpdatePlan(ctx context.Context, plan *entity.SmartMeetingPlan) error {
	query := `
		UPDATE smart_meeting_plans
		SET state = $1,
		    current_attempt = $2,
		    candidate_start = $3,
		    candidate_end = $4,
		    response_deadline = $5,
		    finalized_starts_at = $6,
		    finalized_ends_at = $7,
		    updated_at = now()
		WHERE id = $8
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query,
		plan.State,
		plan.CurrentAttempt,
		plan.CandidateStart,
		plan.CandidateEnd,
		plan.ResponseDeadline,
		plan.FinalizedStartsAt,
		plan.FinalizedEndsAt,
		plan.ID,
	); err != nil {
		logger.Error("PlanRepository:UpdatePlan", err)
		return err
	}
	return nil
}

func (r *planRepository) GetDuePlanIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM smart_meeting_plans
		WHERE state = $1 AND response_deadline <= $2
	`
	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, entity.StateAwaitingResponses, now)
	if err != nil {
		if err == sql.ErrNoRows {
			return []uuid.UUID{}, nil
		}
		logger.Error("PlanRepository:GetDuePlanIDs", err)
		return nil, err
	}
	return ids, nil
}

func (r *planRepository) CreateInvitations(ctx context.Context, invitations []entity.PlanInvitation) error {
	if len(invitations) == 0 {
		return nil
	}
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("PlanRepository:CreateInvitations:Begin", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO plan_invitations (plan_id, attempt, participant_id, response)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plan_id, attempt, participant_id) DO NOTHING
	`
	for _, inv := range invitations {
		if _, err := tx.ExecContext(ctx, query, inv.PlanID, inv.Attempt, inv.ParticipantID, inv.Response); err != nil {
			logger.Error("PlanRepository:CreateInvitations:Exec", err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Error("PlanRepository:CreateInvitations:Commit", err)
		return err
	}
	return nil
}

func (r *planRepository) GetInvitations(ctx context.Context, planID uuid.UUID, attempt int) ([]entity.PlanInvitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM plan_invitations
		WHERE plan_id = $1 AND attempt = $2
		ORDER BY created_at ASC
	`
	var invitations []entity.PlanInvitation
	err := r.DB.SelectContext(ctx, &invitations, query, planID, attempt)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.PlanInvitation{}, nil
		}
		logger.Error("PlanRepository:GetInvitations", err)
		return nil, err
	}
	return invitations, nil
}

func (r *planRepository) GetInvitation(ctx context.Context, planID uuid.UUID, attempt int, participantID uuid.UUID) (*entity.PlanInvitation, error) {
	var invitation entity.PlanInvitation
	query := `
		SELECT ` + invitationColumns + `
		FROM plan_invitations
		WHERE plan_id = $1 AND attempt = $2 AND participant_id = $3
	`
	err := r.DB.GetContext(ctx, &invitation, query, planID, attempt, participantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PlanRepository:GetInvitation", err)
		return nil, err
	}
	return &invitation, nil
}

func (r *planRepository) UpdateInvitationResponse(ctx context.Context, id uuid.UUID, response entity.InvitationResponse, respondedAt time.Time) error {
	query := `
		UPDATE plan_invitations
		SET response = $1, responded_at = $2
		WHERE id = $3
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query, response, respondedAt, id); err != nil {
		logger.Error("PlanRepository:UpdateInvitationResponse", err)
		return err
	}
	return nil
}

func (r *planRepository) DeclineUnresolved(ctx context.Context, planID uuid.UUID, attempt int, respondedAt time.Time) error {
	query := `
		UPDATE plan_invitations
		SET response = $1, responded_at = $2
		WHERE plan_id = $3 AND attempt = $4 AND response = $5
	`
	if _, err := r.DB.SQLx().ExecContext(ctx, query,
		entity.ResponseDeclined, respondedAt, planID, attempt, entity.ResponsePending,
	); err != nil {
		logger.Error("PlanRepository:DeclineUnresolved", err)
		return err
	}
	return nil
}
