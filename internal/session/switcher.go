// Package session coordinates what happens when the user moves between
// media: pending edits for the outgoing media are flushed first, then the
// backup coordinator is re-bound and the incoming media's latest saved state
// is loaded. Rapid switching is debounced so only the final selection wins.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/internal/backup"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
	"github.com/YaelHo1991/transcription-app-sub005/internal/store"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultFlushWait = 300 * time.Millisecond

	loadTimeout = 15 * time.Second
)

// Selection describes the media the user navigated to, together with the
// hooks the editor layer supplies for it.
type Selection struct {
	Identity models.Identity
	FileName string

	// Provider returns the current editable snapshot for this media.
	Provider backup.SnapshotProvider

	// Dirty reports whether the editor has unsaved modifications since
	// load. When false, switching away skips the flush entirely. A nil
	// Dirty is treated as always dirty.
	Dirty func() bool

	// OnLoaded receives the media's latest saved state (or an empty
	// default when none exists) once the switch completes. Not called for
	// selections superseded before their load finished.
	OnLoaded func(snapshot *models.Snapshot, version int, err error)
}

// Config tunes the switcher. Zero values fall back to defaults.
type Config struct {
	Debounce  time.Duration // window that absorbs rapid repeated selections
	FlushWait time.Duration // bounded wait on the outgoing flush
	Interval  time.Duration // auto-save interval handed to Attach
}

// Switcher serializes media transitions for one backup coordinator.
type Switcher struct {
	coordinator *backup.Coordinator
	store       store.VersionHistoryStore
	debounce    time.Duration
	flushWait   time.Duration
	interval    time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation int
	active     *Selection
}

func NewSwitcher(c *backup.Coordinator, st store.VersionHistoryStore, cfg Config) *Switcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.FlushWait <= 0 {
		cfg.FlushWait = DefaultFlushWait
	}
	if cfg.Interval <= 0 {
		cfg.Interval = backup.DefaultInterval
	}
	return &Switcher{
		coordinator: c,
		store:       st,
		debounce:    cfg.Debounce,
		flushWait:   cfg.FlushWait,
		interval:    cfg.Interval,
	}
}

// OnSelectionChange is called whenever the active (project, media) selection
// changes. Selections arriving within the debounce window replace each other;
// only the last one proceeds to flush/attach/load.
func (s *Switcher) OnSelectionChange(sel Selection) {
	s.mu.Lock()

	// Re-selecting the current media only refreshes the provider hookup.
	if s.active != nil && s.active.Identity.Equal(sel.Identity) && s.timer == nil {
		s.active = &sel
		s.mu.Unlock()
		s.coordinator.Attach(sel.Identity, sel.Provider, s.interval)
		return
	}

	// With nothing attached there is no flush to protect and nothing to
	// absorb; the opening selection proceeds without the debounce delay.
	if s.active == nil && s.timer == nil {
		s.generation++
		gen := s.generation
		s.mu.Unlock()
		go s.performSwitch(gen, sel)
		return
	}

	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.performSwitch(gen, sel)
	})
	s.mu.Unlock()
}

func (s *Switcher) performSwitch(gen int, sel Selection) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	prev := s.active
	s.mu.Unlock()

	if prev != nil && !prev.Identity.Equal(sel.Identity) {
		s.flushOutgoing(prev)
	}

	// The flush wait is long enough for another selection to arrive. That
	// newer switch owns the coordinator from here on; attaching the older
	// target now would steal the binding back to superseded media.
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debugf("[Session] Switch to %s superseded during flush, aborted", sel.Identity)
		return
	}
	s.active = &sel
	s.mu.Unlock()

	s.coordinator.Attach(sel.Identity, sel.Provider, s.interval)

	snapshot, version, err := s.loadLatest(sel)

	s.mu.Lock()
	stale := gen != s.generation
	s.mu.Unlock()
	if stale {
		logger.Debugf("[Session] Load for %s superseded, result discarded", sel.Identity)
		return
	}

	if sel.OnLoaded != nil {
		sel.OnLoaded(snapshot, version, err)
	}
}

// flushOutgoing saves the previous media's pending edits before the switch.
// Best effort: the wait is bounded so a slow store cannot freeze navigation.
// A timed-out flush keeps running in the background; the coordinator ignores
// its side effects once the identity has moved on.
func (s *Switcher) flushOutgoing(prev *Selection) {
	if prev.Dirty != nil && !prev.Dirty() {
		logger.Debugf("[Session] %s not modified, flush skipped", prev.Identity)
		return
	}
	if prev.Provider == nil {
		return
	}
	snapshot := prev.Provider()
	if snapshot == nil {
		return
	}

	done := make(chan backup.SaveResult, 1)
	go func() {
		done <- s.coordinator.ForceSave(snapshot)
	}()

	select {
	case res := <-done:
		if res.Err != nil {
			logger.Errorf("[Session] Flush for %s failed: %v", prev.Identity, res.Err)
		} else if res.Saved {
			logger.Infof("[Session] Flushed %s as version %d", prev.Identity, res.Version)
		}
	case <-time.After(s.flushWait):
		logger.Warnf("[Session] Flush for %s exceeded %s, switching anyway (save continues in background)",
			prev.Identity, s.flushWait)
	}
}

func (s *Switcher) loadLatest(sel Selection) (*models.Snapshot, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	snapshot, version, err := s.store.Latest(ctx, sel.Identity)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewEmptySnapshot(sel.Identity, sel.FileName), 0, nil
	}
	if err != nil {
		logger.Errorf("[Session] Load for %s failed: %v", sel.Identity, err)
		return nil, 0, err
	}
	return snapshot, version, nil
}
