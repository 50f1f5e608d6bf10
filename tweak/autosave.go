package tweak

import (
	"strings"
	"time"
)

// AutosaveMode selects when pending changes are flushed to storage.
type AutosaveMode uint8

const (
	// AutosaveImmediate flushes on every value change.
	AutosaveImmediate AutosaveMode = iota
	// AutosaveDebounced flushes once the last change is older than the delay.
	AutosaveDebounced
	// AutosaveInterval flushes at most once per interval while changes pend.
	AutosaveInterval
	// AutosaveManual flushes only on explicit request or lifecycle events.
	AutosaveManual
)

// String returns the lowercase mode name used in config files.
func (m AutosaveMode) String() string {
	switch m {
	case AutosaveImmediate:
		return "immediate"
	case AutosaveDebounced:
		return "debounced"
	case AutosaveInterval:
		return "interval"
	case AutosaveManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseAutosaveMode maps a config string to a mode; unknown strings fall
// back to debounced, the safest default.
func ParseAutosaveMode(s string) AutosaveMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return AutosaveImmediate
	case "interval":
		return AutosaveInterval
	case "manual":
		return AutosaveManual
	default:
		return AutosaveDebounced
	}
}

// LifecycleEvent is a host application lifecycle notification. Any of them
// flushes pending changes in every mode.
type LifecycleEvent uint8

const (
	AppPause LifecycleEvent = iota
	AppFocusLost
	AppDestroy
)

// Autosave is the flush-decision state machine. It owns no storage; callers
// ask it whether to flush and report back with Flushed.
type Autosave struct {
	mode     AutosaveMode
	delay    time.Duration
	interval time.Duration

	tracker   *ChangeTracker
	lastFlush time.Time
}

// NewAutosave builds the policy around a shared change tracker. Delay feeds
// the debounced mode, interval the interval mode.
func NewAutosave(mode AutosaveMode, delay, interval time.Duration, tracker *ChangeTracker) *Autosave {
	if tracker == nil {
		tracker = &ChangeTracker{}
	}
	return &Autosave{
		mode:     mode,
		delay:    delay,
		interval: interval,
		tracker:  tracker,
	}
}

// Mode returns the configured autosave mode.
func (a *Autosave) Mode() AutosaveMode {
	return a.mode
}

// Tracker returns the underlying change tracker.
func (a *Autosave) Tracker() *ChangeTracker {
	return a.tracker
}

// NoteChange records a value mutation. The result is true when the change
// itself demands a flush (immediate mode only).
func (a *Autosave) NoteChange(now time.Time) bool {
	a.tracker.Mark(now)
	return a.mode == AutosaveImmediate
}

// Tick evaluates the per-frame flush condition. It never fires without a
// pending change.
func (a *Autosave) Tick(now time.Time) bool {
	if !a.tracker.Pending() {
		return false
	}
	switch a.mode {
	case AutosaveDebounced:
		return now.Sub(a.tracker.LastChange()) >= a.delay
	case AutosaveInterval:
		if a.lastFlush.IsZero() {
			// Arm the interval on the first pending tick.
			a.lastFlush = now
			return false
		}
		return now.Sub(a.lastFlush) >= a.interval
	default:
		return false
	}
}

// Lifecycle reports whether a host lifecycle event should flush now. Every
// mode flushes pending changes on pause, focus loss, and shutdown.
func (a *Autosave) Lifecycle(ev LifecycleEvent) bool {
	_ = ev
	return a.tracker.Pending()
}

// ManualRequest reports whether an explicit save request should flush.
func (a *Autosave) ManualRequest() bool {
	return a.tracker.Pending()
}

// Flushed tells the policy a flush completed: the pending flag clears and
// the interval timer restarts.
func (a *Autosave) Flushed(now time.Time) {
	a.tracker.Clear()
	a.lastFlush = now
}

// FlushFailed tells the policy a flush attempt failed. Pending stays set so
// the data is not lost, but both timers restart: the next attempt waits a
// full delay or interval instead of firing again on the next tick.
func (a *Autosave) FlushFailed(now time.Time) {
	a.tracker.Mark(now)
	a.lastFlush = now
}

// LastFlush returns when the last completed flush was reported.
func (a *Autosave) LastFlush() time.Time {
	return a.lastFlush
}
