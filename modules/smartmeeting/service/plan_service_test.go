package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"realite-api/core/errors"
	calendarentity "realite-api/modules/calendar/entity"
	calendarService "realite-api/modules/calendar/service"
	"realite-api/modules/smartmeeting/dto"
	"realite-api/modules/smartmeeting/entity"

	"github.com/google/uuid"
)

type fakePlanRepo struct {
	plans       map[uuid.UUID]*entity.SmartMeetingPlan
	invitations map[uuid.UUID]*entity.PlanInvitation
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans:       make(map[uuid.UUID]*entity.SmartMeetingPlan),
		invitations: make(map[uuid.UUID]*entity.PlanInvitation),
	}
}

func (r *fakePlanRepo) CreatePlan(_ context.Context, plan *entity.SmartMeetingPlan) (*entity.SmartMeetingPlan, error) {
	saved := *plan
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now()
	r.plans[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (r *fakePlanRepo) GetPlanByID(_ context.Context, id uuid.UUID) (*entity.SmartMeetingPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	out := *plan
	return &out, nil
}

func (r *fakePlanRepo) GetPlansByGroupID(_ context.Context, groupID uuid.UUID) ([]entity.SmartMeetingPlan, error) {
	var out []entity.SmartMeetingPlan
	for _, p := range r.plans {
		if p.GroupID == groupID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) UpdatePlan(_ context.Context, plan *entity.SmartMeetingPlan) error {
	saved := *plan
	r.plans[plan.ID] = &saved
	return nil
}

func (r *fakePlanRepo) GetDuePlanIDs(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range r.plans {
		if p.State == entity.StateAwaitingResponses && p.ResponseDeadline != nil && !p.ResponseDeadline.After(now) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *fakePlanRepo) CreateInvitations(_ context.Context, invitations []entity.PlanInvitation) error {
	for _, inv := range invitations {
		inv.ID = uuid.New()
		inv.CreatedAt = time.Now()
		stored := inv
		r.invitations[inv.ID] = &stored
	}
	return nil
}

func (r *fakePlanRepo) GetInvitations(_ context.Context, planID uuid.UUID, attempt int) ([]entity.PlanInvitation, error) {
	var out []entity.PlanInvitation
	for _, inv := range r.invitations {
		if inv.PlanID == planID && inv.Attempt == attempt {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetInvitation(_ context.Context, planID uuid.UUID, attempt int, participantID uuid.UUID) (*entity.PlanInvitation, error) {
	for _, inv := range r.invitations {
		if inv.PlanID == planID && inv.Attempt == attempt && inv.ParticipantID == participantID {
			out := *inv
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) UpdateInvitationResponse(_ context.Context, id uuid.UUID, response entity.InvitationResponse, respondedAt time.Time) error {
	inv, ok := r.invitations[id]
	if !ok {
		return fmt.Errorf("invitation %s not found", id)
	}
	inv.Response = response
	inv.RespondedAt = &respondedAt
	return nil
}

func (r *fakePlanRepo) DeclineUnresolved(_ context.Context, planID uuid.UUID, attempt int, respondedAt time.Time) error {
	for _, inv := range r.invitations {
		if inv.PlanID == planID && inv.Attempt == attempt && inv.Response == entity.ResponsePending {
			inv.Response = entity.ResponseDeclined
			inv.RespondedAt = &respondedAt
		}
	}
	return nil
}

type fakeGroups struct {
	members map[uuid.UUID][]uuid.UUID
	listErr *errors.AppError
}

func (g *fakeGroups) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, *errors.AppError) {
	for _, id := range g.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGroups) ListMemberIDs(_ context.Context, groupID uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.members[groupID], nil
}

// fakeResolver marks intervals overlapping any busy window as unavailable.
type fakeResolver struct {
	busy  []calendarentity.Interval
	calls int
}

func (f *fakeResolver) ComputeAvailability(_ context.Context, _ uuid.UUID, intervals []calendarentity.Interval) (map[string]bool, string) {
	f.calls++
	out := make(map[string]bool, len(intervals))
	for _, iv := range intervals {
		out[iv.ID] = true
		for _, b := range f.busy {
			if iv.Start.Before(b.End) && b.Start.Before(iv.End) {
				out[iv.ID] = false
				break
			}
		}
	}
	return out, ""
}

type fakeCalendar struct {
	inserted []uuid.UUID
	failFor  map[uuid.UUID]bool
}

func (f *fakeCalendar) InsertCalendarEvent(_ context.Context, userID uuid.UUID, _ calendarService.InsertEventRequest) (string, error) {
	if f.failFor[userID] {
		return "", fmt.Errorf("provider unavailable")
	}
	f.inserted = append(f.inserted, userID)
	return "ext-" + userID.String()[:8], nil
}

type fakeNotifier struct {
	invitations int
	finalized   int
	failed      int
}

func (f *fakeNotifier) SendInvitation(_ context.Context, _, _ uuid.UUID, _ string, _, _, _ time.Time) error {
	f.invitations++
	return nil
}

func (f *fakeNotifier) NotifyPlanFinalized(_ context.Context, _, _ uuid.UUID, _ string, _, _ time.Time) error {
	f.finalized++
	return nil
}

func (f *fakeNotifier) NotifyPlanFailed(_ context.Context, _, _ uuid.UUID, _ string) error {
	f.failed++
	return nil
}

type fixture struct {
	repo     *fakePlanRepo
	groups   *fakeGroups
	resolver *fakeResolver
	calendar *fakeCalendar
	notifier *fakeNotifier
	svc      *planService
	owner    uuid.UUID
	memberB  uuid.UUID
	memberC  uuid.UUID
	groupID  uuid.UUID
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newFakePlanRepo(),
		resolver: &fakeResolver{},
		calendar: &fakeCalendar{failFor: make(map[uuid.UUID]bool)},
		notifier: &fakeNotifier{},
		owner:    uuid.New(),
		memberB:  uuid.New(),
		memberC:  uuid.New(),
		groupID:  uuid.New(),
		now:      time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
	}
	f.groups = &fakeGroups{members: map[uuid.UUID][]uuid.UUID{
		f.groupID: {f.owner, f.memberB, f.memberC},
	}}
	f.svc = NewPlanService(f.repo, f.groups, f.resolver, f.calendar, f.notifier, nil).(*planService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) createRequest() *dto.CreatePlanRequest {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return &dto.CreatePlanRequest{
		GroupID:                 f.groupID,
		Title:                   "Quarterly planning",
		DurationMinutes:         60,
		MinAcceptedParticipants: 2,
		ResponseWindowHours:     24,
		SearchWindowStart:       start,
		SearchWindowEnd:         start.Add(8 * time.Hour),
		SlotIntervalMinutes:     30,
		MaxAttempts:             3,
	}
}

func (f *fixture) mustCreate(t *testing.T) *dto.PlanResponse {
	t.Helper()
	resp, appErr := f.svc.CreatePlan(context.Background(), f.owner, f.createRequest())
	if appErr != nil {
		t.Fatalf("CreatePlan failed: %v", appErr)
	}
	return resp
}

func TestCreatePlanOpensFirstAttempt(t *testing.T) {
	f := newFixture(t)

	resp := f.mustCreate(t)

	if resp.State != string(entity.StateAwaitingResponses) {
		t.Fatalf("state = %s, want awaiting_responses", resp.State)
	}
	if resp.CurrentAttempt != 1 {
		t.Errorf("currentAttempt = %d, want 1", resp.CurrentAttempt)
	}
	wantStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if resp.CandidateStart == nil || !resp.CandidateStart.Equal(wantStart) {
		t.Errorf("candidateStart = %v, want %v", resp.CandidateStart, wantStart)
	}
	if resp.ResponseDeadline == nil || !resp.ResponseDeadline.Equal(f.now.Add(24*time.Hour)) {
		t.Errorf("responseDeadline = %v, want now+24h", resp.ResponseDeadline)
	}
	if len(resp.Invitations) != 3 {
		t.Fatalf("invitations = %d, want 3", len(resp.Invitations))
	}
	for _, inv := range resp.Invitations {
		if inv.Response != string(entity.ResponsePending) {
			t.Errorf("invitation response = %s, want pending", inv.Response)
		}
	}
	if f.notifier.invitations != 3 {
		t.Errorf("invitation notices = %d, want 3", f.notifier.invitations)
	}
}

func TestCreatePlanRejectsNonMember(t *testing.T) {
	f := newFixture(t)

	_, appErr := f.svc.CreatePlan(context.Background(), uuid.New(), f.createRequest())
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("CreatePlan by outsider = %v, want ErrForbidden", appErr)
	}
	if len(f.repo.plans) != 0 {
		t.Error("plan persisted despite rejection")
	}
}

func TestCreatePlanRejectsInvalidRangesWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest()
	req.DurationMinutes = 5

	_, appErr := f.svc.CreatePlan(context.Background(), f.owner, req)
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("CreatePlan = %v, want ErrInvalidInput", appErr)
	}
	if len(f.repo.plans) != 0 {
		t.Error("invalid plan was persisted")
	}
}

func TestOpenAttemptSkipsBusySlots(t *testing.T) {
	f := newFixture(t)
	// Organizer is busy for the first hour of the window.
	f.resolver.busy = []calendarentity.Interval{{
		Start: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
	}}

	resp := f.mustCreate(t)

	// Slots at 9:00 and 9:30 overlap the busy hour; 10:00 is the first free.
	wantStart := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	if resp.CandidateStart == nil || !resp.CandidateStart.Equal(wantStart) {
		t.Errorf("candidateStart = %v, want %v", resp.CandidateStart, wantStart)
	}
}

func TestQuorumFinalizesPlan(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)
	planID := resp.ID

	if _, _, appErr := f.svc.Respond(context.Background(), f.owner, planID, &dto.RespondRequest{Response: "accepted"}); appErr != nil {
		t.Fatalf("first accept failed: %v", appErr)
	}
	final, _, appErr := f.svc.Respond(context.Background(), f.memberB, planID, &dto.RespondRequest{Response: "accepted"})
	if appErr != nil {
		t.Fatalf("second accept failed: %v", appErr)
	}

	if final.State != string(entity.StateFinalized) {
		t.Fatalf("state = %s, want finalized", final.State)
	}
	wantStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	if final.FinalizedStartsAt == nil || !final.FinalizedStartsAt.Equal(wantStart) {
		t.Errorf("finalizedStartsAt = %v, want %v", final.FinalizedStartsAt, wantStart)
	}
	if final.FinalizedEndsAt == nil || !final.FinalizedEndsAt.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("finalizedEndsAt = %v, want %v", final.FinalizedEndsAt, wantStart.Add(time.Hour))
	}
	// Calendar entries only for the two who accepted.
	if len(f.calendar.inserted) != 2 {
		t.Errorf("calendar inserts = %d, want 2", len(f.calendar.inserted))
	}
	if len(final.Effects) != 2 {
		t.Errorf("effects = %v, want one entry per attempted insert", final.Effects)
	}
	if f.notifier.finalized != 3 {
		t.Errorf("finalized notices = %d, want 3", f.notifier.finalized)
	}
}

func TestCalendarInsertFailureDoesNotBlockFinalization(t *testing.T) {
	f := newFixture(t)
	f.calendar.failFor[f.owner] = true
	resp := f.mustCreate(t)

	f.svc.Respond(context.Background(), f.owner, resp.ID, &dto.RespondRequest{Response: "accepted"})
	f.svc.Respond(context.Background(), f.memberB, resp.ID, &dto.RespondRequest{Response: "accepted"})

	plan, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.State != entity.StateFinalized {
		t.Fatalf("state = %s, want finalized despite insert failure", plan.State)
	}
	if len(f.calendar.inserted) != 1 {
		t.Errorf("calendar inserts = %d, want 1", len(f.calendar.inserted))
	}
}

func TestDeadlineExpiryOpensNextAttempt(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)
	planID := resp.ID

	// One accept out of three; quorum of two not reached.
	if _, _, appErr := f.svc.Respond(context.Background(), f.owner, planID, &dto.RespondRequest{Response: "accepted"}); appErr != nil {
		t.Fatalf("accept failed: %v", appErr)
	}

	f.now = f.now.Add(25 * time.Hour)
	if _, appErr := f.svc.Advance(context.Background(), planID); appErr != nil {
		t.Fatalf("Advance after deadline failed: %v", appErr)
	}

	plan, _ := f.repo.GetPlanByID(context.Background(), planID)
	if plan.State != entity.StateAwaitingResponses {
		t.Fatalf("state = %s, want awaiting_responses on attempt 2", plan.State)
	}
	if plan.CurrentAttempt != 2 {
		t.Errorf("currentAttempt = %d, want 2", plan.CurrentAttempt)
	}
	wantStart := time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC)
	if plan.CandidateStart == nil || !plan.CandidateStart.Equal(wantStart) {
		t.Errorf("candidateStart = %v, want next slot %v", plan.CandidateStart, wantStart)
	}

	// Unresolved first-attempt invitations were implicitly declined.
	firstAttempt, _ := f.repo.GetInvitations(context.Background(), planID, 1)
	declined := 0
	for _, inv := range firstAttempt {
		if inv.Response == entity.ResponseDeclined {
			declined++
		}
	}
	if declined != 2 {
		t.Errorf("implicitly declined = %d, want 2", declined)
	}

	// Fresh pending invitations for attempt 2.
	secondAttempt, _ := f.repo.GetInvitations(context.Background(), planID, 2)
	if len(secondAttempt) != 3 {
		t.Errorf("attempt 2 invitations = %d, want 3", len(secondAttempt))
	}
}

func TestAttemptBudgetExhaustionFailsPlan(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest()
	req.MaxAttempts = 1
	resp, appErr := f.svc.CreatePlan(context.Background(), f.owner, req)
	if appErr != nil {
		t.Fatalf("CreatePlan failed: %v", appErr)
	}

	f.now = f.now.Add(25 * time.Hour)
	if _, appErr := f.svc.Advance(context.Background(), resp.ID); appErr != nil {
		t.Fatalf("Advance failed: %v", appErr)
	}

	plan, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.State != entity.StateFailed {
		t.Fatalf("state = %s, want failed after last attempt expired", plan.State)
	}
	if f.notifier.failed != 3 {
		t.Errorf("failure notices = %d, want 3", f.notifier.failed)
	}
}

func TestWindowExhaustionFailsPlan(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest()
	// Window fits exactly one 60-minute slot.
	req.SearchWindowEnd = req.SearchWindowStart.Add(time.Hour)
	resp, appErr := f.svc.CreatePlan(context.Background(), f.owner, req)
	if appErr != nil {
		t.Fatalf("CreatePlan failed: %v", appErr)
	}
	if resp.CurrentAttempt != 1 {
		t.Fatalf("currentAttempt = %d, want 1", resp.CurrentAttempt)
	}

	// Deadline passes without quorum; no further slot exists.
	f.now = f.now.Add(25 * time.Hour)
	if _, appErr := f.svc.Advance(context.Background(), resp.ID); appErr != nil {
		t.Fatalf("Advance failed: %v", appErr)
	}

	plan, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.State != entity.StateFailed {
		t.Fatalf("state = %s, want failed on exhausted window", plan.State)
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)

	before, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	for i := 0; i < 3; i++ {
		if _, appErr := f.svc.Advance(context.Background(), resp.ID); appErr != nil {
			t.Fatalf("Advance #%d failed: %v", i+1, appErr)
		}
	}
	after, _ := f.repo.GetPlanByID(context.Background(), resp.ID)

	if after.State != before.State || after.CurrentAttempt != before.CurrentAttempt {
		t.Errorf("redundant advance changed plan: before %s/%d, after %s/%d",
			before.State, before.CurrentAttempt, after.State, after.CurrentAttempt)
	}
	invitations, _ := f.repo.GetInvitations(context.Background(), resp.ID, 1)
	if len(invitations) != 3 {
		t.Errorf("invitations after redundant advances = %d, want 3", len(invitations))
	}
}

func TestRespondDoubleAnswerIsNoOp(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)

	if _, _, appErr := f.svc.Respond(context.Background(), f.memberB, resp.ID, &dto.RespondRequest{Response: "declined"}); appErr != nil {
		t.Fatalf("first response failed: %v", appErr)
	}
	snapshot, warnings, appErr := f.svc.Respond(context.Background(), f.memberB, resp.ID, &dto.RespondRequest{Response: "accepted"})
	if appErr != nil {
		t.Fatalf("second response must not fail, got %v", appErr)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected a warning for the ignored answer, got %v", warnings)
	}
	if snapshot.State != string(entity.StateAwaitingResponses) {
		t.Errorf("state = %s, want awaiting_responses unchanged", snapshot.State)
	}

	// The recorded decline stands.
	inv, _ := f.repo.GetInvitation(context.Background(), resp.ID, 1, f.memberB)
	if inv.Response != entity.ResponseDeclined {
		t.Errorf("response = %s, want the original declined answer kept", inv.Response)
	}
}

func TestRespondRejectsUninvitedParticipant(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)

	_, _, appErr := f.svc.Respond(context.Background(), uuid.New(), resp.ID, &dto.RespondRequest{Response: "accepted"})
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("uninvited respond = %v, want ErrNotFound", appErr)
	}
}

func TestMemberListFailureLeavesPlanSearching(t *testing.T) {
	f := newFixture(t)
	f.groups.listErr = errors.NewAppError(errors.ErrGetFailed, "member directory unavailable", nil)

	resp := f.mustCreate(t)

	// The attempt never opened: the plan stays searching with no invitations
	// instead of waiting out a deadline on an invitation-less attempt.
	plan, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.State != entity.StateSearching {
		t.Fatalf("state = %s, want searching after member lookup failure", plan.State)
	}
	if plan.CurrentAttempt != 0 {
		t.Errorf("currentAttempt = %d, want 0", plan.CurrentAttempt)
	}
	invitations, _ := f.repo.GetInvitations(context.Background(), resp.ID, 1)
	if len(invitations) != 0 {
		t.Errorf("invitations = %d, want none", len(invitations))
	}

	// Once the directory recovers, the next advance opens the attempt.
	f.groups.listErr = nil
	if _, appErr := f.svc.Advance(context.Background(), resp.ID); appErr != nil {
		t.Fatalf("Advance after recovery failed: %v", appErr)
	}
	plan, _ = f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.State != entity.StateAwaitingResponses || plan.CurrentAttempt != 1 {
		t.Errorf("state = %s attempt = %d, want awaiting_responses on attempt 1", plan.State, plan.CurrentAttempt)
	}
	invitations, _ = f.repo.GetInvitations(context.Background(), resp.ID, 1)
	if len(invitations) != 3 {
		t.Errorf("invitations = %d, want 3", len(invitations))
	}
}

func TestLateResponseIsRecordedButOutcomeStands(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)
	planID := resp.ID

	f.svc.Respond(context.Background(), f.owner, planID, &dto.RespondRequest{Response: "accepted"})
	f.svc.Respond(context.Background(), f.memberB, planID, &dto.RespondRequest{Response: "accepted"})

	// memberC answers after finalization.
	late, _, appErr := f.svc.Respond(context.Background(), f.memberC, planID, &dto.RespondRequest{Response: "accepted"})
	if appErr != nil {
		t.Fatalf("late response rejected: %v", appErr)
	}
	if late.State != string(entity.StateFinalized) {
		t.Errorf("state = %s, want finalized unchanged", late.State)
	}

	inv, _ := f.repo.GetInvitation(context.Background(), planID, 1, f.memberC)
	if inv.Response != entity.ResponseAccepted {
		t.Errorf("late response = %s, want recorded as accepted", inv.Response)
	}
	// No extra calendar entry for the late accept.
	if len(f.calendar.inserted) != 2 {
		t.Errorf("calendar inserts = %d, want 2", len(f.calendar.inserted))
	}
}

func TestSweepAdvancesDuePlans(t *testing.T) {
	f := newFixture(t)
	resp := f.mustCreate(t)

	f.now = f.now.Add(25 * time.Hour)
	if err := f.svc.HandleSweepTask(context.Background(), nil); err != nil {
		t.Fatalf("HandleSweepTask failed: %v", err)
	}

	plan, _ := f.repo.GetPlanByID(context.Background(), resp.ID)
	if plan.CurrentAttempt != 2 {
		t.Errorf("currentAttempt = %d, want 2 after sweep", plan.CurrentAttempt)
	}
}
