package backup

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestGuardBlocksForGraceWindow(t *testing.T) {
	ft := newFakeTime()
	g := newTransitionGuard(ft.Now)

	assert.False(t, g.Blocking(), "unarmed guard should not block")

	g.Open(2 * time.Second)
	assert.True(t, g.Blocking())

	ft.Advance(1999 * time.Millisecond)
	assert.True(t, g.Blocking())

	ft.Advance(time.Millisecond)
	assert.False(t, g.Blocking())
}

func TestGuardRearms(t *testing.T) {
	ft := newFakeTime()
	g := newTransitionGuard(ft.Now)

	g.Open(2 * time.Second)
	ft.Advance(3 * time.Second)
	assert.False(t, g.Blocking())

	g.Open(2 * time.Second)
	assert.True(t, g.Blocking())
}
