// Package leaktest holds test helpers that catch goroutines and keyed locks
// left behind by concurrent code.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	// settleTimeout bounds how long a check waits for stragglers to exit
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
)

// GoroutineChecker records the goroutine count at creation and later
// verifies that the count has come back down
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check waits until at most tolerance extra goroutines remain, and fails
// the test if that does not happen within settleTimeout
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after, ok := waitFor(func() int { return runtime.NumGoroutine() }, g.before+tolerance)
	if !ok {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, after-g.before, tolerance)
	}
}

// Tracker is anything that can report how many keyed entries it still holds,
// such as concurrency.LockManager
type Tracker interface {
	Len() int
}

// CheckReleased fails the test unless tracker drains to zero entries
func CheckReleased(t testing.TB, name string, tracker Tracker) {
	t.Helper()

	if remaining, ok := waitFor(tracker.Len, 0); !ok {
		t.Errorf("%s still holds %d entries", name, remaining)
	}
}

// waitFor polls count until it is at most target. It returns the last
// observed value and whether the target was reached.
func waitFor(count func() int, target int) (int, bool) {
	deadline := time.Now().Add(settleTimeout)
	for {
		runtime.Gosched()
		n := count()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
