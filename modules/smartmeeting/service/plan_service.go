package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realite-api/core/config"
	"realite-api/core/constants"
	"realite-api/core/errors"
	"realite-api/core/logger"
	"realite-api/core/queue"
	calendarService "realite-api/modules/calendar/service"
	"realite-api/modules/smartmeeting/dto"
	"realite-api/modules/smartmeeting/entity"
	"realite-api/modules/smartmeeting/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Consumer-side slices of the collaborating modules.
type (
	groupDirectory interface {
		IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError)
		ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, *errors.AppError)
	}

	calendarGateway interface {
		InsertCalendarEvent(ctx context.Context, userID uuid.UUID, req calendarService.InsertEventRequest) (string, error)
	}

	notifier interface {
		SendInvitation(ctx context.Context, participantID, planID uuid.UUID, title string, slotStart, slotEnd, deadline time.Time) error
		NotifyPlanFinalized(ctx context.Context, participantID, planID uuid.UUID, title string, startsAt, endsAt time.Time) error
		NotifyPlanFailed(ctx context.Context, participantID, planID uuid.UUID, title string) error
	}

)

// AdvanceEnqueuer schedules negotiation steps on the task queue. It is
// exported so the module wiring can hand over a typed nil when no queue is
// configured.
type AdvanceEnqueuer interface {
	EnqueueAdvance(ctx context.Context, planID uuid.UUID, delay time.Duration) error
}

type PlanService interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, req *dto.CreatePlanRequest) (*dto.PlanResponse, *errors.AppError)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*dto.PlanResponse, *errors.AppError)
	Respond(ctx context.Context, userID, planID uuid.UUID, req *dto.RespondRequest) (*dto.PlanResponse, []string, *errors.AppError)
	// Advance executes one negotiation step. It is idempotent against the
	// observed plan state and serialized per plan.
	Advance(ctx context.Context, planID uuid.UUID) ([]string, *errors.AppError)
	HandleAdvanceTask(ctx context.Context, task *asynq.Task) error
	HandleSweepTask(ctx context.Context, task *asynq.Task) error
}

type planService struct {
	plans    repository.PlanRepository
	groups   groupDirectory
	resolver availabilityResolver
	calendar calendarGateway
	notify   notifier
	queue    AdvanceEnqueuer
	locks    *planLocks
	now      func() time.Time
}

func NewPlanService(
	plans repository.PlanRepository,
	groups groupDirectory,
	resolver availabilityResolver,
	calendar calendarGateway,
	notify notifier,
	enqueuer AdvanceEnqueuer,
) PlanService {
	return &planService{
		plans:    plans,
		groups:   groups,
		resolver: resolver,
		calendar: calendar,
		notify:   notify,
		queue:    enqueuer,
		locks:    newPlanLocks(),
		now:      time.Now,
	}
}

func (s *planService) CreatePlan(ctx context.Context, userID uuid.UUID, req *dto.CreatePlanRequest) (*dto.PlanResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	isMember, appErr := s.groups.IsMember(ctx, req.GroupID, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "only group members can plan meetings", nil)
	}

	plan := &entity.SmartMeetingPlan{
		GroupID:                 req.GroupID,
		CreatedBy:               userID,
		Title:                   req.Title,
		DurationMinutes:         req.DurationMinutes,
		MinAcceptedParticipants: req.MinAcceptedParticipants,
		ResponseWindowHours:     req.ResponseWindowHours,
		SearchWindowStart:       req.SearchWindowStart,
		SearchWindowEnd:         req.SearchWindowEnd,
		SlotIntervalMinutes:     req.SlotIntervalMinutes,
		MaxAttempts:             req.MaxAttempts,
		State:                   entity.StateSearching,
	}
	plan.ApplyDefaults()
	if err := plan.Validate(); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}

	saved, err := s.plans.CreatePlan(ctx, plan)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create meeting plan", err)
	}

	logger.Info("PlanService:CreatePlan:Success", "plan_id", saved.ID, "group_id", saved.GroupID)

	s.triggerAdvance(ctx, saved.ID, 0)

	fresh, err := s.plans.GetPlanByID(ctx, saved.ID)
	if err != nil || fresh == nil {
		fresh = saved
	}
	invitations, _ := s.plans.GetInvitations(ctx, fresh.ID, fresh.CurrentAttempt)
	return dto.ToPlanResponse(fresh, invitations), nil
}

func (s *planService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*dto.PlanResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	plan, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load meeting plan", err)
	}
	if plan == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting plan not found", nil)
	}

	isMember, appErr := s.groups.IsMember(ctx, plan.GroupID, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "meeting plan is restricted to group members", nil)
	}

	invitations, err := s.plans.GetInvitations(ctx, planID, plan.CurrentAttempt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load invitations", err)
	}
	return dto.ToPlanResponse(plan, invitations), nil
}

// Respond records a participant's answer for the current attempt. A response
// that arrives after the attempt closed is still recorded but never changes
// the outcome already reached. Answering before an attempt opened or for an
// already-answered invitation is a logged no-op that returns the current plan
// with a warning.
func (s *planService) Respond(ctx context.Context, userID, planID uuid.UUID, req *dto.RespondRequest) (*dto.PlanResponse, []string, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	response := entity.InvitationResponse(req.Response)
	if !entity.ValidInvitationResponse(response) {
		return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "response must be accepted or declined", nil)
	}

	plan, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "failed to load meeting plan", err)
	}
	if plan == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "meeting plan not found", nil)
	}
	if plan.CurrentAttempt == 0 {
		logger.Warn("PlanService:Respond:NoOpenAttempt", "plan_id", planID, "participant_id", userID)
		return dto.ToPlanResponse(plan, nil), []string{"no attempt is open yet, response ignored"}, nil
	}

	invitation, err := s.plans.GetInvitation(ctx, planID, plan.CurrentAttempt, userID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "failed to load invitation", err)
	}
	if invitation == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "no invitation for this participant", nil)
	}
	if invitation.Response != entity.ResponsePending {
		logger.Warn("PlanService:Respond:AlreadyAnswered",
			"plan_id", planID, "participant_id", userID, "recorded", invitation.Response)
		invitations, _ := s.plans.GetInvitations(ctx, planID, plan.CurrentAttempt)
		warning := fmt.Sprintf("invitation already answered with %s, response ignored", invitation.Response)
		return dto.ToPlanResponse(plan, invitations), []string{warning}, nil
	}

	if err := s.plans.UpdateInvitationResponse(ctx, invitation.ID, response, s.now()); err != nil {
		return nil, nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to record response", err)
	}

	logger.Info("PlanService:Respond:Recorded",
		"plan_id", planID, "participant_id", userID, "response", response)

	// An accept can complete the quorum; re-evaluate right away. Declines
	// only matter once the deadline tally runs.
	var effects []string
	if response == entity.ResponseAccepted && plan.State == entity.StateAwaitingResponses {
		var advErr *errors.AppError
		effects, advErr = s.Advance(ctx, planID)
		if advErr != nil {
			logger.Warn("PlanService:Respond:AdvanceFailed", "plan_id", planID, "error", advErr)
		}
	}

	fresh, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil || fresh == nil {
		fresh = plan
	}
	invitations, _ := s.plans.GetInvitations(ctx, planID, fresh.CurrentAttempt)
	resp := dto.ToPlanResponse(fresh, invitations)
	resp.Effects = effects
	return resp, nil, nil
}

// Advance runs negotiation steps until the plan settles: it opens the next
// attempt from searching, tallies an awaiting attempt, and chains a deadline
// expiry straight into the next attempt. Calling it on a settled or
// still-waiting plan changes nothing.
func (s *planService) Advance(ctx context.Context, planID uuid.UUID) ([]string, *errors.AppError) {
	release := s.locks.acquire(planID)
	defer release()

	var effects []string
	for {
		again, stepEffects, appErr := s.step(ctx, planID)
		effects = append(effects, stepEffects...)
		if appErr != nil {
			return effects, appErr
		}
		if !again {
			return effects, nil
		}
	}
}

// step performs a single state transition. It reports whether another step
// should immediately follow.
func (s *planService) step(ctx context.Context, planID uuid.UUID) (bool, []string, *errors.AppError) {
	plan, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return false, nil, errors.NewAppError(errors.ErrGetFailed, "failed to load meeting plan", err)
	}
	if plan == nil {
		return false, nil, errors.NewAppError(errors.ErrNotFound, "meeting plan not found", nil)
	}

	switch plan.State {
	case entity.StateSearching:
		return s.openAttempt(ctx, plan)
	case entity.StateAwaitingResponses:
		return s.tallyAttempt(ctx, plan)
	default:
		return false, nil, nil
	}
}

func (s *planService) openAttempt(ctx context.Context, plan *entity.SmartMeetingPlan) (bool, []string, *errors.AppError) {
	if plan.CurrentAttempt >= plan.MaxAttempts {
		return false, nil, s.failPlan(ctx, plan, "attempt budget exhausted")
	}

	slotStart, ok := nextCandidateSlot(ctx, s.resolver, plan)
	if !ok {
		return false, nil, s.failPlan(ctx, plan, "search window exhausted")
	}
	slotEnd := slotStart.Add(plan.Duration())
	deadline := s.now().Add(plan.ResponseWindow())

	memberIDs, appErr := s.groups.ListMemberIDs(ctx, plan.GroupID)
	if appErr != nil {
		return false, nil, appErr
	}

	plan.CandidateStart = &slotStart
	plan.CandidateEnd = &slotEnd
	plan.ResponseDeadline = &deadline
	plan.CurrentAttempt++
	if err := plan.Transition(entity.StateAwaitingResponses); err != nil {
		return false, nil, errors.NewAppError(errors.ErrStateConflict, err.Error(), err)
	}

	// Invitations go in before the state flip is persisted. If the update
	// below fails the plan stays searching; a retry reuses the same attempt
	// number and the conflict-ignoring insert dedups the rows.
	invitations := make([]entity.PlanInvitation, len(memberIDs))
	for i, memberID := range memberIDs {
		invitations[i] = entity.PlanInvitation{
			PlanID:        plan.ID,
			Attempt:       plan.CurrentAttempt,
			ParticipantID: memberID,
			Response:      entity.ResponsePending,
		}
	}
	if err := s.plans.CreateInvitations(ctx, invitations); err != nil {
		return false, nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create invitations", err)
	}

	if err := s.plans.UpdatePlan(ctx, plan); err != nil {
		return false, nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to open attempt", err)
	}

	logger.Info("PlanService:OpenAttempt:Success",
		"plan_id", plan.ID, "attempt", plan.CurrentAttempt,
		"slot_start", slotStart, "deadline", deadline)

	if s.notify != nil {
		for _, memberID := range memberIDs {
			if err := s.notify.SendInvitation(ctx, memberID, plan.ID, plan.Title, slotStart, slotEnd, deadline); err != nil {
				logger.Warn("PlanService:OpenAttempt:NotifyFailed",
					"plan_id", plan.ID, "participant_id", memberID, "error", err)
			}
		}
	}

	// Have the deadline tally run even if nobody responds.
	s.triggerAdvance(ctx, plan.ID, plan.ResponseWindow())

	return false, nil, nil
}

func (s *planService) tallyAttempt(ctx context.Context, plan *entity.SmartMeetingPlan) (bool, []string, *errors.AppError) {
	invitations, err := s.plans.GetInvitations(ctx, plan.ID, plan.CurrentAttempt)
	if err != nil {
		return false, nil, errors.NewAppError(errors.ErrGetFailed, "failed to load invitations", err)
	}

	accepted := 0
	for _, inv := range invitations {
		if inv.Response == entity.ResponseAccepted {
			accepted++
		}
	}

	if accepted >= plan.MinAcceptedParticipants {
		effects, appErr := s.finalizePlan(ctx, plan, invitations)
		return false, effects, appErr
	}

	if plan.ResponseDeadline == nil || s.now().Before(*plan.ResponseDeadline) {
		// Quorum not reached and the attempt still open: nothing to do.
		return false, nil, nil
	}

	// Deadline expired without quorum: unresolved invitations count as
	// declined and the search resumes at the next slot.
	if err := s.plans.DeclineUnresolved(ctx, plan.ID, plan.CurrentAttempt, s.now()); err != nil {
		return false, nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to close attempt", err)
	}
	if err := plan.Transition(entity.StateSearching); err != nil {
		return false, nil, errors.NewAppError(errors.ErrStateConflict, err.Error(), err)
	}
	plan.ResponseDeadline = nil
	if err := s.plans.UpdatePlan(ctx, plan); err != nil {
		return false, nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to resume search", err)
	}

	logger.Info("PlanService:TallyAttempt:DeadlineExpired",
		"plan_id", plan.ID, "attempt", plan.CurrentAttempt, "accepted", accepted)

	return true, nil, nil
}

func (s *planService) finalizePlan(ctx context.Context, plan *entity.SmartMeetingPlan, invitations []entity.PlanInvitation) ([]string, *errors.AppError) {
	plan.FinalizedStartsAt = plan.CandidateStart
	plan.FinalizedEndsAt = plan.CandidateEnd
	plan.ResponseDeadline = nil
	if err := plan.Transition(entity.StateFinalized); err != nil {
		return nil, errors.NewAppError(errors.ErrStateConflict, err.Error(), err)
	}
	if err := s.plans.UpdatePlan(ctx, plan); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to finalize plan", err)
	}

	logger.Info("PlanService:FinalizePlan:Success",
		"plan_id", plan.ID, "attempt", plan.CurrentAttempt, "starts_at", plan.FinalizedStartsAt)

	// Calendar entries and notices are best-effort: the plan is final either
	// way, failures only show up in the effects report.
	var effects []string
	for _, inv := range invitations {
		if inv.Response != entity.ResponseAccepted {
			continue
		}
		if s.calendar == nil {
			continue
		}
		_, err := s.calendar.InsertCalendarEvent(ctx, inv.ParticipantID, calendarService.InsertEventRequest{
			Title:       plan.Title,
			Description: calendarService.BuildRealiteCalendarMetadata(calendarService.CalendarMetadata{URL: s.planURL(plan.ID), Type: "smart_meeting"}),
			Start:       *plan.FinalizedStartsAt,
			End:         *plan.FinalizedEndsAt,
		})
		if err != nil {
			logger.Warn("PlanService:FinalizePlan:CalendarInsertFailed",
				"plan_id", plan.ID, "participant_id", inv.ParticipantID, "error", err)
			effects = append(effects, fmt.Sprintf("calendar insert failed for %s: %v", inv.ParticipantID, err))
			continue
		}
		effects = append(effects, fmt.Sprintf("calendar insert succeeded for %s", inv.ParticipantID))
	}

	if s.notify != nil {
		for _, inv := range invitations {
			if err := s.notify.NotifyPlanFinalized(ctx, inv.ParticipantID, plan.ID, plan.Title, *plan.FinalizedStartsAt, *plan.FinalizedEndsAt); err != nil {
				logger.Warn("PlanService:FinalizePlan:NotifyFailed",
					"plan_id", plan.ID, "participant_id", inv.ParticipantID, "error", err)
			}
		}
	}

	return effects, nil
}

func (s *planService) failPlan(ctx context.Context, plan *entity.SmartMeetingPlan, reason string) *errors.AppError {
	plan.ResponseDeadline = nil
	if err := plan.Transition(entity.StateFailed); err != nil {
		return errors.NewAppError(errors.ErrStateConflict, err.Error(), err)
	}
	if err := s.plans.UpdatePlan(ctx, plan); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to mark plan failed", err)
	}

	logger.Info("PlanService:FailPlan",
		"plan_id", plan.ID, "attempt", plan.CurrentAttempt, "reason", reason)

	if s.notify != nil {
		memberIDs, appErr := s.groups.ListMemberIDs(ctx, plan.GroupID)
		if appErr != nil {
			logger.Warn("PlanService:FailPlan:MembersUnavailable", "plan_id", plan.ID, "error", appErr)
			memberIDs = []uuid.UUID{plan.CreatedBy}
		}
		for _, memberID := range memberIDs {
			if err := s.notify.NotifyPlanFailed(ctx, memberID, plan.ID, plan.Title); err != nil {
				logger.Warn("PlanService:FailPlan:NotifyFailed",
					"plan_id", plan.ID, "participant_id", memberID, "error", err)
			}
		}
	}

	return nil
}

// triggerAdvance prefers the task queue; without one (or when the enqueue
// fails) the step runs inline so the negotiation never stalls.
func (s *planService) triggerAdvance(ctx context.Context, planID uuid.UUID, delay time.Duration) {
	if s.queue != nil {
		if err := s.queue.EnqueueAdvance(ctx, planID, delay); err == nil {
			return
		}
		logger.Warn("PlanService:TriggerAdvance:EnqueueFailed", "plan_id", planID)
	}
	if delay > 0 {
		// Delayed steps are the sweep's job when no queue is around.
		return
	}
	if _, appErr := s.Advance(ctx, planID); appErr != nil {
		logger.Warn("PlanService:TriggerAdvance:InlineFailed", "plan_id", planID, "error", appErr)
	}
}

func (s *planService) planURL(planID uuid.UUID) string {
	base := "https://realite.app"
	if cfg, ok := config.GetSafe(); ok && cfg.Server.BaseURL != "" {
		base = cfg.Server.BaseURL
	}
	return base + "/meetings/" + planID.String()
}

// HandleAdvanceTask is the asynq handler for queued negotiation steps. A
// malformed payload is dropped rather than retried.
func (s *planService) HandleAdvanceTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.AdvancePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("PlanService:HandleAdvanceTask:BadPayload", err)
		return nil
	}
	if _, appErr := s.Advance(ctx, payload.PlanID); appErr != nil {
		return appErr
	}
	return nil
}

// HandleSweepTask re-drives every plan whose response deadline has passed.
// It backs up the per-attempt delayed task in case one was lost.
func (s *planService) HandleSweepTask(ctx context.Context, task *asynq.Task) error {
	ids, err := s.plans.GetDuePlanIDs(ctx, s.now())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, appErr := s.Advance(ctx, id); appErr != nil {
			logger.Warn("PlanService:HandleSweepTask:AdvanceFailed", "plan_id", id, "error", appErr)
		}
	}
	if len(ids) > 0 {
		logger.Info("PlanService:HandleSweepTask:Processed", "count", len(ids))
	}
	return nil
}
