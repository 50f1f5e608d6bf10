package tweak

import "time"

// ChangeTracker records whether any persisted value changed since the last
// flush and when the most recent change happened. The autosave policy
// consults it; flushing clears the pending flag.
type ChangeTracker struct {
	pending    bool
	everDirty  bool
	lastChange time.Time
}

// Mark records a mutation at the given time.
func (t *ChangeTracker) Mark(now time.Time) {
	t.pending = true
	t.everDirty = true
	t.lastChange = now
}

// Pending reports whether unsaved changes exist.
func (t *ChangeTracker) Pending() bool {
	return t.pending
}

// EverDirty reports whether any change happened this process lifetime,
// regardless of flushes since.
func (t *ChangeTracker) EverDirty() bool {
	return t.everDirty
}

// LastChange returns the timestamp of the most recent mutation. The zero
// time means nothing changed yet.
func (t *ChangeTracker) LastChange() time.Time {
	return t.lastChange
}

// Clear resets the pending flag after a flush.
func (t *ChangeTracker) Clear() {
	t.pending = false
}
