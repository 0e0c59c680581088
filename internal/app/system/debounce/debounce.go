// internal/app/system/debounce/debounce.go

// Package debounce coalesces rapid section edits into a single delayed
// remote write.
//
// An Updater is a small state machine: Idle, or PendingWrite holding the
// latest (section, payload). Every Update call resets the one shared
// timer; when it fires, exactly one write is issued carrying the payload
// of the last call in the window. Earlier payloads in the same window are
// superseded, not merged; callers that want merging must merge before
// calling.
//
// Write results are tracked per section (Synced / Pending / Failed). A
// failed write does not retry and does not roll anything back; the caller
// reads Status to decide how to present unsaved state.
package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/facultyhub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultWindow is the delay after the most recent edit before the write
// is issued.
const DefaultWindow = 1000 * time.Millisecond

// SyncStatus is the per-section write state.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusPending SyncStatus = "pending"
	StatusFailed  SyncStatus = "failed"
)

// WriteFunc persists one section payload. The store stamps updated_at.
type WriteFunc func(ctx context.Context, section models.Section, payload any) error

// Timer is the resettable timer handle the clock hands out.
type Timer interface {
	Stop() bool
}

// Clock abstracts timer scheduling so the last-call-wins contract is
// testable without wall-clock sleeps.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (rt realTimer) Stop() bool { return rt.t.Stop() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

// RealClock returns the wall-clock implementation.
func RealClock() Clock { return realClock{} }

// Updater coalesces writes for one profile.
type Updater struct {
	window time.Duration
	clock  Clock
	write  WriteFunc
	log    *zap.Logger

	mu      sync.Mutex
	timer   Timer
	pending *pendingWrite
	status  map[models.Section]SyncStatus
	closed  bool
}

type pendingWrite struct {
	section models.Section
	payload any
}

// New builds an Updater with the default window and real clock.
func New(write WriteFunc, logger *zap.Logger) *Updater {
	return NewWithClock(DefaultWindow, RealClock(), write, logger)
}

// NewWithClock builds an Updater with an explicit window and clock.
func NewWithClock(window time.Duration, clock Clock, write WriteFunc, logger *zap.Logger) *Updater {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		window: window,
		clock:  clock,
		write:  write,
		log:    logger,
		status: make(map[models.Section]SyncStatus),
	}
}

// Update records a section edit and (re)arms the shared timer. The last
// update before the timer fires is the one that gets written.
func (u *Updater) Update(section models.Section, payload any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	if u.timer != nil {
		u.timer.Stop()
	}
	// A superseded pending section stays marked pending until its next
	// write resolves; the new section becomes pending too.
	u.pending = &pendingWrite{section: section, payload: payload}
	u.status[section] = StatusPending
	u.timer = u.clock.AfterFunc(u.window, u.fire)
}

// fire issues the coalesced write. Runs on the timer goroutine.
func (u *Updater) fire() {
	u.mu.Lock()
	if u.closed || u.pending == nil {
		u.mu.Unlock()
		return
	}
	pw := u.pending
	u.pending = nil
	u.timer = nil
	u.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := u.write(ctx, pw.section, pw.payload)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		// No retry, no rollback: the local edit stays visible and the
		// section is flagged Failed for the UI to react to.
		u.status[pw.section] = StatusFailed
		u.log.Error("debounced section write failed",
			zap.String("section", string(pw.section)), zap.Error(err))
		return
	}
	// Only mark synced if no newer edit re-pended the section meanwhile.
	if u.pending == nil || u.pending.section != pw.section {
		u.status[pw.section] = StatusSynced
	}
}

// Status returns the sync state of one section. Sections never written
// through this updater report Synced.
func (u *Updater) Status(section models.Section) SyncStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	if s, ok := u.status[section]; ok {
		return s
	}
	return StatusSynced
}

// Statuses returns a snapshot of every tracked section's state.
func (u *Updater) Statuses() map[models.Section]SyncStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[models.Section]SyncStatus, len(u.status))
	for k, v := range u.status {
		out[k] = v
	}
	return out
}

// Close cancels any pending timer and drops the un-flushed payload.
// Further Update calls are ignored. Safe to call more than once.
func (u *Updater) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.closed = true
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
	u.pending = nil
}
