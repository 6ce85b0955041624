package service

import (
	"context"
	"sync"
	"time"

	"realite-api/core/constants"

	"github.com/google/uuid"
)

// BeginResult describes the outcome of asking the registry to start a sync.
type BeginResult int

const (
	// SyncStarted: the caller owns the sync and must call Handle.Finish.
	SyncStarted BeginResult = iota
	// SyncJoined: another sync is in flight; wait on the handle for its result.
	SyncJoined
	// SyncCooldown: an unforced trigger landed inside the cooldown window.
	SyncCooldown
)

type syncEntry struct {
	done    chan struct{}
	err     error
	lastRun time.Time
}

// SyncRegistry deduplicates background calendar synchronization per user: at
// most one sync in flight per user, and unforced triggers are rejected until
// the cooldown has elapsed since the last completed run. The registry is
// constructed and injected, never a package-level singleton.
type SyncRegistry struct {
	mu       sync.Mutex
	cooldown time.Duration
	entries  map[uuid.UUID]*syncEntry
	now      func() time.Time
}

func NewSyncRegistry() *SyncRegistry {
	return &SyncRegistry{
		cooldown: constants.SyncCooldown,
		entries:  make(map[uuid.UUID]*syncEntry),
		now:      time.Now,
	}
}

// SyncHandle tracks one in-flight sync.
type SyncHandle struct {
	registry *SyncRegistry
	userID   uuid.UUID
	entry    *syncEntry
}

// Begin claims or joins the user's sync slot.
func (r *SyncRegistry) Begin(userID uuid.UUID, force bool) (*SyncHandle, BeginResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if ok {
		select {
		case <-entry.done:
			// Finished; fall through to cooldown check.
		default:
			return &SyncHandle{registry: r, userID: userID, entry: entry}, SyncJoined
		}

		if !force && r.now().Sub(entry.lastRun) < r.cooldown {
			return nil, SyncCooldown
		}
	}

	entry = &syncEntry{done: make(chan struct{})}
	r.entries[userID] = entry
	return &SyncHandle{registry: r, userID: userID, entry: entry}, SyncStarted
}

// Finish records the sync result and releases the slot. Only the handle that
// got SyncStarted may call it.
func (h *SyncHandle) Finish(err error) {
	h.registry.mu.Lock()
	h.entry.err = err
	h.entry.lastRun = h.registry.now()
	h.registry.mu.Unlock()
	close(h.entry.done)
}

// Wait blocks until the in-flight sync completes and returns its error.
func (h *SyncHandle) Wait(ctx context.Context) error {
	select {
	case <-h.entry.done:
		return h.entry.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
