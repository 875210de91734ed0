package backup

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockFiresAndStops(t *testing.T) {
	c := newClock()
	var ticks atomic.Int32
	c.Start(10*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 },
		time.Second, 5*time.Millisecond)

	c.Stop()
	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after Stop")
}

func TestClockStopIdempotent(t *testing.T) {
	c := newClock()
	c.Stop()
	c.Start(10*time.Millisecond, func() {})
	c.Stop()
	c.Stop()
}

func TestClockRestartReplacesTimer(t *testing.T) {
	c := newClock()
	var first, second atomic.Int32

	c.Start(10*time.Millisecond, func() { first.Add(1) })
	c.Start(10*time.Millisecond, func() { second.Add(1) })
	defer c.Stop()

	require.Eventually(t, func() bool { return second.Load() >= 2 },
		time.Second, 5*time.Millisecond)

	got := first.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, first.Load(), "old timer must not keep firing")
}
