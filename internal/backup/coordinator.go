// Package backup implements the auto-save coordinator for transcription
// sessions. It periodically persists the active snapshot to a version
// history store, skipping writes when nothing changed, and refuses to write
// across a media transition so that a save computed for one media can never
// land under another media's identity.
package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/internal/fingerprint"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
	"github.com/YaelHo1991/transcription-app-sub005/internal/store"
)

const (
	DefaultInterval = 60 * time.Second
	DefaultGrace    = 2 * time.Second

	saveTimeout = 15 * time.Second
)

// SnapshotProvider returns the current editable state. Supplied by the
// session layer at attach time; must be cheap and synchronous.
type SnapshotProvider func() *models.Snapshot

// Status is pushed to subscribers after every relevant state change.
type Status struct {
	LastSaveAt       time.Time
	Version          int
	IsSaving         bool
	HasPendingChange bool
	Err              string
	AuthRequired     bool
}

// SaveResult reports the outcome of a single save attempt. A skipped save
// (no change, transition window, save already in flight) is not an error.
type SaveResult struct {
	Saved   bool
	Skipped bool
	Reason  string
	Version int
	Err     error
}

// Coordinator owns the auto-save state for at most one attached
// (project, media) identity at a time. Construct one per session context and
// pass it to whoever needs it; there is no package-level instance.
type Coordinator struct {
	store store.VersionHistoryStore
	now   func() time.Time

	clk   *clock
	guard *transitionGuard

	mu               sync.Mutex
	attached         bool
	identity         models.Identity
	provider         SnapshotProvider
	interval         time.Duration
	grace            time.Duration
	lastFingerprint  string
	lastSaveAt       time.Time
	hasPendingChange bool
	isSaving         bool
	currentVersion   int
	lastError        string
	authRequired     bool

	listeners    map[int]func(Status)
	nextListener int
}

func NewCoordinator(st store.VersionHistoryStore) *Coordinator {
	now := time.Now
	return &Coordinator{
		store:     st,
		now:       now,
		clk:       newClock(),
		guard:     newTransitionGuard(now),
		interval:  DefaultInterval,
		grace:     DefaultGrace,
		listeners: make(map[int]func(Status)),
	}
}

// Attach binds the coordinator to an identity and starts the auto-save
// timer. It does NOT flush the previous identity; callers that need the old
// session saved first go through the session switch coordinator. Re-attaching
// the same identity only refreshes the provider reference.
func (c *Coordinator) Attach(identity models.Identity, provider SnapshotProvider, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	c.mu.Lock()
	if c.attached && c.identity.Equal(identity) {
		c.provider = provider
		c.mu.Unlock()
		return
	}

	c.attached = true
	c.identity = identity
	c.provider = provider
	c.interval = interval
	// Fresh identity: the first change after attach must be eligible to
	// save once the interval elapses and the transition window has closed.
	c.lastFingerprint = ""
	c.hasPendingChange = false
	c.isSaving = false
	c.currentVersion = 0
	c.lastError = ""
	c.authRequired = false
	c.lastSaveAt = c.now()
	grace := c.grace
	c.mu.Unlock()

	c.guard.Open(grace)
	c.clk.Start(interval, c.tick)
	logger.Infof("[Backup] Attached %s (interval %s)", identity, interval)
}

// Detach stops the timer and clears all session state. Nothing is written;
// pending edits are the session switch coordinator's problem.
func (c *Coordinator) Detach() {
	c.clk.Stop()

	c.mu.Lock()
	if !c.attached {
		c.mu.Unlock()
		return
	}
	id := c.identity
	c.attached = false
	c.identity = models.Identity{}
	c.provider = nil
	c.lastFingerprint = ""
	c.hasPendingChange = false
	c.lastError = ""
	c.authRequired = false
	c.mu.Unlock()

	logger.Infof("[Backup] Detached %s", id)
}

// TrackChange marks the session dirty. Callable per keystroke: O(1), no I/O,
// never fails. The actual write happens on the next timer tick.
func (c *Coordinator) TrackChange() {
	c.mu.Lock()
	if !c.attached || c.hasPendingChange {
		c.mu.Unlock()
		return
	}
	c.hasPendingChange = true
	status := c.statusLocked()
	c.mu.Unlock()

	c.broadcast(status)
}

// ForceSave persists the given snapshot immediately, bypassing the timer
// interval. The transition window, fingerprint dedup, identity match and
// single-flight rules still apply. Used by explicit "save now" and by the
// flush before a media switch.
func (c *Coordinator) ForceSave(snapshot *models.Snapshot) SaveResult {
	if snapshot == nil {
		return SaveResult{Skipped: true, Reason: "nil snapshot"}
	}
	return c.save(snapshot, false)
}

// UpdateSettings applies new timing configuration. The running timer is
// restarted only when the interval actually changed.
func (c *Coordinator) UpdateSettings(interval, grace time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if grace <= 0 {
		grace = DefaultGrace
	}

	c.mu.Lock()
	restartClock := c.attached && interval != c.interval
	c.interval = interval
	c.grace = grace
	c.mu.Unlock()

	if restartClock {
		c.clk.Start(interval, c.tick)
		logger.Infof("[Backup] Auto-save interval changed to %s", interval)
	}
}

// OnStatusChange registers a listener and returns its unsubscribe func.
func (c *Coordinator) OnStatusChange(fn func(Status)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// CurrentStatus returns a point-in-time copy of the save state.
func (c *Coordinator) CurrentStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Identity returns the currently attached identity, if any.
func (c *Coordinator) Identity() (models.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.attached
}

// tick runs on every timer fire. A tick with nothing pending, a blocking
// transition window, or a save already in flight is a no-op; the pending
// flag survives so the next tick retries.
func (c *Coordinator) tick() {
	c.mu.Lock()
	if !c.attached || !c.hasPendingChange || c.isSaving {
		c.mu.Unlock()
		return
	}
	if c.guard.Blocking() {
		c.mu.Unlock()
		logger.Debugf("[Backup] Tick during transition window, deferred")
		return
	}
	provider := c.provider
	c.mu.Unlock()

	if provider == nil {
		return
	}
	snapshot := provider()
	if snapshot == nil {
		return
	}
	c.save(snapshot, true)
}

func (c *Coordinator) save(snapshot *models.Snapshot, auto bool) SaveResult {
	c.mu.Lock()

	if !c.attached {
		c.mu.Unlock()
		return SaveResult{Skipped: true, Reason: "no active session"}
	}
	if c.guard.Blocking() {
		c.mu.Unlock()
		return SaveResult{Skipped: true, Reason: "transition window open"}
	}
	if c.isSaving {
		c.mu.Unlock()
		return SaveResult{Skipped: true, Reason: "save already in flight"}
	}

	// A snapshot computed for different media must never be written under
	// this identity, no matter what the fingerprint says.
	if snapshot.Metadata.MediaID != c.identity.MediaID {
		c.lastError = fmt.Sprintf("identity mismatch: snapshot for media %q, session bound to %q",
			snapshot.Metadata.MediaID, c.identity.MediaID)
		status := c.statusLocked()
		err := errors.New(c.lastError)
		c.mu.Unlock()

		logger.Errorf("[Backup] %v", err)
		c.broadcast(status)
		return SaveResult{Err: err}
	}

	fp := fingerprint.Compute(snapshot)
	if fp == c.lastFingerprint && c.lastFingerprint != "" {
		c.hasPendingChange = false
		c.lastSaveAt = c.now()
		version := c.currentVersion
		status := c.statusLocked()
		c.mu.Unlock()

		logger.Debugf("[Backup] Content unchanged, skipping version")
		c.broadcast(status)
		return SaveResult{Skipped: true, Reason: "content unchanged", Version: version}
	}

	identity := c.identity
	proposed := c.currentVersion + 1
	c.isSaving = true
	savedAt := c.now()
	// Stamp an outgoing copy; the caller's snapshot stays untouched (the
	// editor layer may still be holding it).
	stamped := *snapshot
	stamped.Metadata.Version = proposed
	stamped.Metadata.SavedAt = &savedAt
	stamped.Metadata.AutoSave = auto
	status := c.statusLocked()
	c.mu.Unlock()

	c.broadcast(status)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	result, err := c.store.Append(ctx, identity, &stamped, proposed)
	cancel()

	c.mu.Lock()
	c.isSaving = false

	// The session may have moved on while the request was in flight.
	// The store write stands either way, but its side effects belong to
	// the identity it was made for.
	if !c.attached || !c.identity.Equal(identity) {
		status := c.statusLocked()
		c.mu.Unlock()
		c.broadcast(status)
		if err == nil {
			logger.Warnf("[Backup] Save for %s completed after switch, result ignored", identity)
			return SaveResult{Saved: true, Version: result.Version}
		}
		return SaveResult{Err: err}
	}

	if err != nil {
		c.lastError = err.Error()
		c.authRequired = errors.Is(err, store.ErrAuthRequired)
		// Pending flag stays set; the next tick retries.
		status := c.statusLocked()
		c.mu.Unlock()

		logger.Errorf("[Backup] Save failed for %s: %v", identity, err)
		c.broadcast(status)
		return SaveResult{Err: err}
	}

	c.lastFingerprint = fp
	c.currentVersion = result.Version
	c.lastSaveAt = c.now()
	c.hasPendingChange = false
	c.lastError = ""
	c.authRequired = false
	status = c.statusLocked()
	c.mu.Unlock()

	logger.Infof("[Backup] Saved %s version %d", identity, result.Version)
	c.broadcast(status)
	return SaveResult{Saved: true, Version: result.Version}
}

func (c *Coordinator) statusLocked() Status {
	return Status{
		LastSaveAt:       c.lastSaveAt,
		Version:          c.currentVersion,
		IsSaving:         c.isSaving,
		HasPendingChange: c.hasPendingChange,
		Err:              c.lastError,
		AuthRequired:     c.authRequired,
	}
}

func (c *Coordinator) broadcast(status Status) {
	c.mu.Lock()
	fns := make([]func(Status), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}
