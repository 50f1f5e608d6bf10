package tweak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAutosaveMode(t *testing.T) {
	assert.Equal(t, AutosaveImmediate, ParseAutosaveMode("immediate"))
	assert.Equal(t, AutosaveInterval, ParseAutosaveMode(" Interval "))
	assert.Equal(t, AutosaveManual, ParseAutosaveMode("MANUAL"))
	assert.Equal(t, AutosaveDebounced, ParseAutosaveMode("debounced"))
	assert.Equal(t, AutosaveDebounced, ParseAutosaveMode("bogus"))
	assert.Equal(t, AutosaveDebounced, ParseAutosaveMode(""))
}

func TestAutosaveImmediateMode(t *testing.T) {
	a := NewAutosave(AutosaveImmediate, 0, 0, nil)
	now := time.Now()

	assert.True(t, a.NoteChange(now))
	assert.True(t, a.Tracker().Pending())

	// Immediate mode never flushes from the tick path.
	assert.False(t, a.Tick(now.Add(time.Hour)))

	a.Flushed(now)
	assert.False(t, a.Tracker().Pending())
}

func TestAutosaveDebouncedCoalesces(t *testing.T) {
	start := time.Now()
	a := NewAutosave(AutosaveDebounced, 2*time.Second, 0, nil)

	// A burst of edits: t=0, t=0.5, t=1. None demands an immediate flush.
	assert.False(t, a.NoteChange(start))
	assert.False(t, a.NoteChange(start.Add(500*time.Millisecond)))
	assert.False(t, a.NoteChange(start.Add(time.Second)))

	// The delay counts from the last change, so nothing fires before t=3.
	flushes := 0
	for ms := 0; ms <= 4000; ms += 100 {
		now := start.Add(time.Duration(ms) * time.Millisecond)
		if a.Tick(now) {
			flushes++
			assert.GreaterOrEqual(t, ms, 3000, "fired before the debounce window closed")
			a.Flushed(now)
		}
	}
	assert.Equal(t, 1, flushes)
}

func TestAutosaveDebouncedIdleWithoutChanges(t *testing.T) {
	a := NewAutosave(AutosaveDebounced, time.Second, 0, nil)
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.False(t, a.Tick(now.Add(time.Duration(i)*time.Second)))
	}
}

func TestAutosaveIntervalArmsOnFirstPendingTick(t *testing.T) {
	start := time.Now()
	a := NewAutosave(AutosaveInterval, 0, 10*time.Second, nil)

	a.NoteChange(start)

	// First pending tick arms the timer instead of flushing.
	require.False(t, a.Tick(start))
	assert.False(t, a.Tick(start.Add(5*time.Second)))
	assert.True(t, a.Tick(start.Add(10*time.Second)))

	a.Flushed(start.Add(10 * time.Second))
	assert.False(t, a.Tracker().Pending())

	// Quiet interval: no pending changes, no flush even past the deadline.
	assert.False(t, a.Tick(start.Add(30*time.Second)))

	// Next change flushes once the interval since the last flush elapses.
	a.NoteChange(start.Add(31 * time.Second))
	assert.True(t, a.Tick(start.Add(31*time.Second)))
}

func TestAutosaveManualMode(t *testing.T) {
	a := NewAutosave(AutosaveManual, 0, 0, nil)
	now := time.Now()

	assert.False(t, a.ManualRequest())

	a.NoteChange(now)
	assert.False(t, a.Tick(now.Add(time.Hour)))
	assert.True(t, a.ManualRequest())

	a.Flushed(now)
	assert.False(t, a.ManualRequest())
}

func TestAutosaveLifecycleFlushesEveryMode(t *testing.T) {
	for _, mode := range []AutosaveMode{AutosaveImmediate, AutosaveDebounced, AutosaveInterval, AutosaveManual} {
		a := NewAutosave(mode, time.Minute, time.Minute, nil)
		now := time.Now()

		assert.False(t, a.Lifecycle(AppPause), "mode %s with nothing pending", mode)

		a.NoteChange(now)
		assert.True(t, a.Lifecycle(AppPause), "mode %s", mode)
		assert.True(t, a.Lifecycle(AppFocusLost), "mode %s", mode)
		assert.True(t, a.Lifecycle(AppDestroy), "mode %s", mode)

		a.Flushed(now)
		assert.False(t, a.Lifecycle(AppDestroy), "mode %s after flush", mode)
	}
}

func TestAutosaveFlushFailedBacksOff(t *testing.T) {
	start := time.Now()
	a := NewAutosave(AutosaveDebounced, time.Second, 0, nil)

	a.NoteChange(start)
	require.True(t, a.Tick(start.Add(time.Second)))
	a.FlushFailed(start.Add(time.Second))

	// A failed write keeps the change pending but must not retry every
	// frame: the debounce window restarts from the failure.
	attempts := 0
	for ms := 1016; ms <= 6000; ms += 16 {
		now := start.Add(time.Duration(ms) * time.Millisecond)
		if a.Tick(now) {
			attempts++
			assert.GreaterOrEqual(t, ms, 2000, "retried inside the backoff window")
			a.FlushFailed(now)
		}
	}
	assert.LessOrEqual(t, attempts, 5)
	assert.True(t, a.Tracker().Pending(), "pending survives failed flushes")
}

func TestAutosaveFlushFailedIntervalBackoff(t *testing.T) {
	start := time.Now()
	a := NewAutosave(AutosaveInterval, 0, 10*time.Second, nil)

	a.NoteChange(start)
	require.False(t, a.Tick(start)) // arms
	require.True(t, a.Tick(start.Add(10*time.Second)))

	a.FlushFailed(start.Add(10 * time.Second))
	assert.False(t, a.Tick(start.Add(11*time.Second)))
	assert.False(t, a.Tick(start.Add(19*time.Second)))
	assert.True(t, a.Tick(start.Add(20*time.Second)))

	// A later success clears pending as usual.
	a.Flushed(start.Add(20 * time.Second))
	assert.False(t, a.Tracker().Pending())
	assert.False(t, a.Tick(start.Add(40*time.Second)))
}

func TestChangeTracker(t *testing.T) {
	tr := &ChangeTracker{}
	assert.False(t, tr.Pending())
	assert.False(t, tr.EverDirty())
	assert.True(t, tr.LastChange().IsZero())

	now := time.Now()
	tr.Mark(now)
	assert.True(t, tr.Pending())
	assert.True(t, tr.EverDirty())
	assert.Equal(t, now, tr.LastChange())

	tr.Clear()
	assert.False(t, tr.Pending())
	// EverDirty survives the flush.
	assert.True(t, tr.EverDirty())
	assert.Equal(t, now, tr.LastChange())
}
