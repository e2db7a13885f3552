package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// carLocker serializes the check-then-insert sequence of booking creation
// per car. Without it two concurrent requests for the same car and range can
// both pass the availability check before either row lands. One process owns
// the ledger, so an in-process advisory lock is sufficient; cross-server
// locking is out of scope.
type carLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newCarLocker() *carLocker {
	return &carLocker{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the mutex for the car, creating it on first use. The
// returned function releases it.
func (l *carLocker) Lock(carID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[carID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[carID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
