package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type heldLock struct {
	token    string
	expireAt time.Time
}

// lockTable is an in-process lock registry with per-lock expiry. Each
// acquisition gets its own token and only that token releases it.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]heldLock
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]heldLock)}
}

func (t *lockTable) tryLock(key string, ttl time.Duration) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if held, ok := t.locks[key]; ok && now.Before(held.expireAt) {
		return "", false
	}
	token := uuid.NewString()
	t.locks[key] = heldLock{token: token, expireAt: now.Add(ttl)}
	return token, true
}

func (t *lockTable) unlock(key, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	held, ok := t.locks[key]
	if !ok || held.token != token {
		return ErrLockNotHeld
	}
	delete(t.locks, key)
	return nil
}

func (t *lockTable) purgeExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, held := range t.locks {
		if now.After(held.expireAt) {
			delete(t.locks, key)
		}
	}
}
