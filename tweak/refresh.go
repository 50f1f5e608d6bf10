package tweak

import (
	"math"
	"strings"
	"time"

	"tweakpanel/typedef"
)

// Epsilon is the tolerance below which float changes are treated as noise
// by the dirty-diff refresher.
const Epsilon = 1e-4

// FloatEqual reports whether two floats differ by less than Epsilon.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ValuesEqual compares two values with type-appropriate equality: exact for
// booleans, epsilon-tolerant for floats and vector components. Values of
// different kinds are never equal.
func ValuesEqual(a, b typedef.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case typedef.KindBool:
		return a.B == b.B
	case typedef.KindFloat:
		return FloatEqual(a.F, b.F)
	default:
		for i := 0; i < a.Kind.Components(); i++ {
			if !FloatEqual(a.Vec[i], b.Vec[i]) {
				return false
			}
		}
		return true
	}
}

// RefreshMode selects how often the refresher polls backing variables.
type RefreshMode uint8

const (
	RefreshEveryFrame RefreshMode = iota
	RefreshInterval
	RefreshManual
)

// ParseRefreshMode maps a config string to a mode; unknown strings fall
// back to every-frame.
func ParseRefreshMode(s string) RefreshMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interval":
		return RefreshInterval
	case "manual":
		return RefreshManual
	default:
		return RefreshEveryFrame
	}
}

// Display receives value pushes from the refresher. Panel widgets implement
// it; tests use fakes to count writes.
type Display interface {
	PushValue(v typedef.Value)
}

// BoundsDisplay is implemented by displays with an adjustable range
// (sliders). Bounds are dirty-checked independently of the value.
type BoundsDisplay interface {
	PushBounds(min, max float64)
}

// watchEntry pairs one display with one control and carries its own dirty
// cache, so several displays may watch the same control independently.
type watchEntry struct {
	control *Control
	display Display

	value     typedef.Value
	min, max  float64
	hasValue  bool
	hasBounds bool
}

// Refresher polls watched controls and pushes only changed values to their
// displays, so an unchanged backing variable costs zero display writes.
// Each watch caches exactly what was last pushed to its display.
type Refresher struct {
	mode     RefreshMode
	interval time.Duration
	lastRun  time.Time

	watches []*watchEntry
}

// NewRefresher creates a refresher with the given cadence.
func NewRefresher(mode RefreshMode, interval time.Duration) *Refresher {
	return &Refresher{
		mode:     mode,
		interval: interval,
	}
}

// Watch registers a control/display pair. Registration is explicit; the
// refresher never discovers targets through globals.
func (r *Refresher) Watch(c *Control, d Display) {
	if c == nil || d == nil {
		return
	}
	r.watches = append(r.watches, &watchEntry{control: c, display: d})
}

// Reset drops all watches and cached state, for a panel rebuild.
func (r *Refresher) Reset() {
	r.watches = nil
}

// Invalidate forgets the cached state for one control so the next run
// pushes unconditionally. Used after loading persisted values.
func (r *Refresher) Invalidate(c *Control) {
	for _, w := range r.watches {
		if w.control == c {
			w.hasValue = false
			w.hasBounds = false
		}
	}
}

// Due reports whether a refresh pass should run at the given time and, when
// it says yes, starts a new interval window.
func (r *Refresher) Due(now time.Time) bool {
	switch r.mode {
	case RefreshEveryFrame:
		return true
	case RefreshInterval:
		if r.lastRun.IsZero() || now.Sub(r.lastRun) >= r.interval {
			r.lastRun = now
			return true
		}
		return false
	default:
		return false
	}
}

// Run performs one dirty-diff pass over all watched controls and returns
// the number of display writes it made.
func (r *Refresher) Run() int {
	writes := 0
	for _, w := range r.watches {
		c := w.control
		if !c.AutoRefresh {
			continue
		}

		// Tier one: slider range. Only touched when a bound actually moved.
		if bd, isBounds := w.display.(BoundsDisplay); isBounds && c.Kind == Slider {
			min, max := c.CurrentBounds()
			if !w.hasBounds || !FloatEqual(w.min, min) || !FloatEqual(w.max, max) {
				bd.PushBounds(min, max)
				w.min, w.max = min, max
				w.hasBounds = true
				writes++
			}
		}

		// Tier two: the value itself.
		v := c.Get()
		if w.hasValue && ValuesEqual(w.value, v) {
			continue
		}
		w.display.PushValue(v)
		w.value = v
		w.hasValue = true
		writes++
	}
	return writes
}
