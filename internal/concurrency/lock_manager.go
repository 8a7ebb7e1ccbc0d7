package concurrency

import (
	"sync"
)

// keyedLock is a mutex shared by every caller currently interested in one key.
// refs counts holders plus waiters and is guarded by LockManager.mu.
type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// LockManager handles named locks. Entries are created on first use and
// reaped as soon as no goroutine holds or waits for them, so the map only
// ever contains keys with in-flight work.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{
		locks: make(map[string]*keyedLock),
	}
}

// Lock blocks until the lock for key is held and returns its release func.
// The release func must be called exactly once.
func (lm *LockManager) Lock(key string) func() {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &keyedLock{}
		lm.locks[key] = l
	}
	l.refs++
	lm.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			lm.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(lm.locks, key)
			}
			lm.mu.Unlock()
		})
	}
}

// Len returns the number of keys currently tracked
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
