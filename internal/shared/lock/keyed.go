package lock

import (
	"context"
	"sync"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/google/uuid"
)

// DefaultTimeout bounds the wait for a per-auction lock. A wedged auction
// must not starve handler goroutines that share the lock table.
const DefaultTimeout = 5 * time.Second

// KeyedMutex serializes mutations per auction while leaving unrelated
// auctions fully parallel. Each key gets a 1-slot semaphore created on
// first use and reused afterwards; entries are never removed, which is fine
// for the engine's lifetime-of-the-process auction set.
type KeyedMutex struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]chan struct{}
	timeout time.Duration
}

// NewKeyedMutex builds a lock table with the given acquisition timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewKeyedMutex(timeout time.Duration) *KeyedMutex {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &KeyedMutex{
		locks:   make(map[uuid.UUID]chan struct{}),
		timeout: timeout,
	}
}

func (k *KeyedMutex) sem(key uuid.UUID) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.locks[key]
	if !ok {
		s = make(chan struct{}, 1)
		k.locks[key] = s
	}
	return s
}

// WithLock runs fn while holding the mutual-exclusion scope for key.
// Acquisition waits at most the configured timeout and then fails with
// domain.ErrLockTimeout; ctx cancellation before acquisition returns the
// ctx error. Once fn starts it always runs to completion: there is no
// cancellation inside the critical section, so a snapshot-then-decide is
// never left half done.
func (k *KeyedMutex) WithLock(ctx context.Context, key uuid.UUID, fn func() error) error {
	s := k.sem(key)
	timer := time.NewTimer(k.timeout)
	defer timer.Stop()
	select {
	case s <- struct{}{}:
	case <-timer.C:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s }()
	return fn()
}
