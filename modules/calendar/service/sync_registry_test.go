package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestRegistry(now *time.Time) *SyncRegistry {
	r := NewSyncRegistry()
	r.now = func() time.Time { return *now }
	return r
}

func TestSyncRegistryStartsFirstSync(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)

	handle, result := r.Begin(uuid.New(), false)
	if result != SyncStarted {
		t.Fatalf("expected SyncStarted, got %v", result)
	}
	if handle == nil {
		t.Fatal("expected a handle")
	}
	handle.Finish(nil)
}

func TestSyncRegistryJoinsInFlight(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)
	userID := uuid.New()

	owner, result := r.Begin(userID, false)
	if result != SyncStarted {
		t.Fatalf("expected SyncStarted, got %v", result)
	}

	joined, result := r.Begin(userID, false)
	if result != SyncJoined {
		t.Fatalf("expected SyncJoined, got %v", result)
	}

	syncErr := fmt.Errorf("provider down")
	owner.Finish(syncErr)

	if err := joined.Wait(context.Background()); err != syncErr {
		t.Errorf("joined waiter got %v, want %v", err, syncErr)
	}
}

func TestSyncRegistryCooldown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)
	userID := uuid.New()

	handle, _ := r.Begin(userID, false)
	handle.Finish(nil)

	// 30s later: inside the 90s cooldown.
	now = now.Add(30 * time.Second)
	if _, result := r.Begin(userID, false); result != SyncCooldown {
		t.Errorf("expected SyncCooldown 30s after a run, got %v", result)
	}

	// Force bypasses the cooldown.
	forced, result := r.Begin(userID, true)
	if result != SyncStarted {
		t.Errorf("expected force to start a sync, got %v", result)
	}
	if forced != nil {
		forced.Finish(nil)
	}
}

func TestSyncRegistryCooldownExpires(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)
	userID := uuid.New()

	handle, _ := r.Begin(userID, false)
	handle.Finish(nil)

	now = now.Add(2 * time.Minute)
	handle, result := r.Begin(userID, false)
	if result != SyncStarted {
		t.Fatalf("expected SyncStarted after cooldown elapsed, got %v", result)
	}
	handle.Finish(nil)
}

func TestSyncRegistryUsersAreIndependent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)

	a, resultA := r.Begin(uuid.New(), false)
	b, resultB := r.Begin(uuid.New(), false)
	if resultA != SyncStarted || resultB != SyncStarted {
		t.Fatalf("expected both users to start, got %v and %v", resultA, resultB)
	}
	a.Finish(nil)
	b.Finish(nil)
}

func TestSyncHandleWaitHonorsContext(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(&now)
	userID := uuid.New()

	_, result := r.Begin(userID, false)
	if result != SyncStarted {
		t.Fatalf("expected SyncStarted, got %v", result)
	}

	joined, _ := r.Begin(userID, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := joined.Wait(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
