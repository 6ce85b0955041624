package service

import (
	"sync"

	"github.com/google/uuid"
)

// planLocks serializes negotiation steps per plan. Two concurrent Advance
// calls for the same plan run one after the other; different plans do not
// contend.
type planLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*planLock
}

type planLock struct {
	mu   sync.Mutex
	refs int
}

func newPlanLocks() *planLocks {
	return &planLocks{locks: make(map[uuid.UUID]*planLock)}
}

// acquire blocks until the plan's lock is held and returns the release
// function. Lock entries are dropped once the last holder releases.
func (l *planLocks) acquire(planID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[planID]
	if !ok {
		lock = &planLock{}
		l.locks[planID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, planID)
		}
		l.mu.Unlock()
	}
}
