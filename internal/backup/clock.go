package backup

import (
	"sync"
	"time"
)

// clock fires onTick at a fixed interval until stopped. One timer per
// coordinator; Start replaces any running timer, Stop is idempotent and
// guarantees no tick is delivered after it returns.
type clock struct {
	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newClock() *clock {
	return &clock{}
}

func (c *clock) Start(interval time.Duration, onTick func()) {
	c.Stop()

	c.mu.Lock()
	c.stopChan = make(chan struct{})
	c.running = true
	stop := c.stopChan
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()
}

func (c *clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	close(c.stopChan)
	c.running = false
	c.mu.Unlock()
	c.wg.Wait()
}
