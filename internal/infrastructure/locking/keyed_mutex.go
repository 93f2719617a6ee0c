package locking

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serializes critical sections per key. The presence guard locks
// per person id around its read-check-write cycle; the entry commit path
// locks per site id around number assignment. Acquisition waits at most
// until the context deadline, so callers fail fast instead of queueing
// unboundedly behind a stuck holder.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{} // capacity 1, holds the lock token
	refs int
}

// NewKeyedMutex creates an empty keyed mutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		slots: make(map[uuid.UUID]*slot),
	}
}

// Lock acquires the lock for key, waiting until ctx is done. Returns false
// if the wait was cut short; the caller owns the lock only on true.
func (k *KeyedMutex) Lock(ctx context.Context, key uuid.UUID) bool {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		s.ch <- struct{}{}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case <-s.ch:
		return true
	case <-ctx.Done():
		k.release(key, s)
		return false
	}
}

// Unlock releases the lock for key. Must only be called after a successful
// Lock for the same key.
func (k *KeyedMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	s, ok := k.slots[key]
	k.mu.Unlock()
	if !ok {
		return
	}

	s.ch <- struct{}{}
	k.release(key, s)
}

// release drops one reference and frees the slot when nobody waits on it
func (k *KeyedMutex) release(key uuid.UUID, s *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}
