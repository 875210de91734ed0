package backup

import (
	"sync"
	"time"
)

// transitionGuard suppresses backup writes for a grace window after the
// bound (project, media) identity changes. It closes the race between an
// old timer firing and the new media being wired up: until the window
// elapses, nothing may reach the version store.
type transitionGuard struct {
	now func() time.Time

	mu        sync.Mutex
	openUntil time.Time
}

func newTransitionGuard(now func() time.Time) *transitionGuard {
	return &transitionGuard{now: now}
}

// Open re-arms the window. Called on every attach.
func (g *transitionGuard) Open(grace time.Duration) {
	g.mu.Lock()
	g.openUntil = g.now().Add(grace)
	g.mu.Unlock()
}

// Blocking reports whether writes are currently suppressed.
func (g *transitionGuard) Blocking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.openUntil)
}
