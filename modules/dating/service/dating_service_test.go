package service

import (
	"context"
	"testing"
	"time"

	"realite-api/modules/dating/entity"

	"github.com/google/uuid"
)

type fakeDatingRepo struct {
	profiles map[uuid.UUID]*entity.DatingProfile
}

func newFakeDatingRepo() *fakeDatingRepo {
	return &fakeDatingRepo{profiles: make(map[uuid.UUID]*entity.DatingProfile)}
}

func (f *fakeDatingRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.DatingProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeDatingRepo) UpsertProfile(ctx context.Context, profile *entity.DatingProfile) (*entity.DatingProfile, error) {
	f.profiles[profile.UserID] = profile
	return profile, nil
}

func newTestDatingService(repo *fakeDatingRepo) *datingService {
	return &datingService{repo: repo, now: func() time.Time { return matchNow }}
}

func storeProfile(repo *fakeDatingRepo, profile *entity.DatingProfile) uuid.UUID {
	id := uuid.New()
	profile.UserID = id
	repo.profiles[id] = profile
	return id
}

func TestIsMutualCandidate(t *testing.T) {
	repo := newFakeDatingRepo()
	svc := newTestDatingService(repo)

	viewer := storeProfile(repo, unlockedProfile(entity.GenderMan, 30, entity.GenderWoman))
	compatible := storeProfile(repo, unlockedProfile(entity.GenderWoman, 28, entity.GenderMan))
	incompatible := storeProfile(repo, unlockedProfile(entity.GenderWoman, 28, entity.GenderWoman))

	ok, appErr := svc.IsMutualCandidate(context.Background(), viewer, compatible)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !ok {
		t.Error("compatible creator should be a candidate")
	}

	ok, appErr = svc.IsMutualCandidate(context.Background(), viewer, incompatible)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if ok {
		t.Error("creator who does not seek the viewer's gender must not be a candidate")
	}
}

func TestIsMutualCandidateOwnEvent(t *testing.T) {
	repo := newFakeDatingRepo()
	svc := newTestDatingService(repo)

	// No profile stored at all: own events still pass.
	self := uuid.New()
	ok, appErr := svc.IsMutualCandidate(context.Background(), self, self)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !ok {
		t.Error("a user's own event must never be filtered")
	}
}

func TestIsMutualCandidateMissingProfile(t *testing.T) {
	repo := newFakeDatingRepo()
	svc := newTestDatingService(repo)

	viewer := storeProfile(repo, unlockedProfile(entity.GenderMan, 30, entity.GenderWoman))

	ok, appErr := svc.IsMutualCandidate(context.Background(), viewer, uuid.New())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if ok {
		t.Error("creator without a dating profile must not be a candidate")
	}
}
