// Package tweak holds the engine-free core of the debug panel: the control
// and tab data model, change tracking, the autosave policy, and the
// dirty-diff refresher. Nothing in this package touches the host UI.
package tweak

import (
	"fmt"
	"log"

	"tweakpanel/typedef"
)

// Kind identifies how a control is presented and edited.
type Kind uint8

const (
	Slider Kind = iota
	Toggle
	Info
	Vector
)

// String returns the lowercase kind name used in logs and API payloads.
func (k Kind) String() string {
	switch k {
	case Slider:
		return "slider"
	case Toggle:
		return "toggle"
	case Info:
		return "info"
	case Vector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Control describes one tweakable named value. The Get/Set closures bind it
// to some external owner; the control itself owns no value state.
type Control struct {
	Name    string
	Kind    Kind
	Tooltip string
	Format  string

	// Save marks the control for persistence. SaveKey overrides the default
	// "tab.control" persisted key.
	Save    bool
	SaveKey string

	// Min/Max bound slider values. Bounds, when set, supplies them
	// dynamically each refresh and takes precedence.
	Min    float64
	Max    float64
	Step   float64
	Bounds func() (min, max float64)

	// AutoRefresh controls whether the dirty-diff refresher polls this
	// control. Defaults to on for every builder.
	AutoRefresh bool

	Get func() typedef.Value
	Set func(typedef.Value)

	tab string
	reg *Registry
}

// TabName returns the tab the control was registered under.
func (c *Control) TabName() string {
	return c.tab
}

// Key returns the persisted key: SaveKey when set, otherwise "tab.control".
func (c *Control) Key() string {
	if c.SaveKey != "" {
		return c.SaveKey
	}
	return c.tab + "." + c.Name
}

// CurrentBounds resolves the slider range, preferring the dynamic supplier.
func (c *Control) CurrentBounds() (float64, float64) {
	if c.Bounds != nil {
		return c.Bounds()
	}
	return c.Min, c.Max
}

// Editable reports whether the control accepts writes.
func (c *Control) Editable() bool {
	return c.Set != nil && c.Kind != Info
}

// WithTooltip sets the hover tooltip text.
func (c *Control) WithTooltip(text string) *Control {
	c.Tooltip = text
	return c
}

// WithFormat sets the printf verb used to render numeric values.
func (c *Control) WithFormat(format string) *Control {
	c.Format = format
	return c
}

// WithSave marks the control for persistence. An optional key overrides the
// default "tab.control" persisted key. On an already-registered control the
// key is indexed immediately; a conflicting key is logged and the control
// stays unsaved so the duplicate never shadows the original.
func (c *Control) WithSave(key ...string) *Control {
	prevKey := ""
	if c.Save && c.reg != nil {
		prevKey = c.Key()
	}
	c.Save = true
	if len(key) > 0 {
		c.SaveKey = key[0]
	}
	if c.reg != nil {
		if prevKey != "" && prevKey != c.Key() && c.reg.saveKeys[prevKey] == c {
			delete(c.reg.saveKeys, prevKey)
		}
		if err := c.reg.registerSaveKey(c); err != nil {
			log.Printf("[TWEAK] %v", err)
			c.Save = false
		}
	}
	return c
}

// WithBounds installs a dynamic range supplier, evaluated on every refresh.
func (c *Control) WithBounds(bounds func() (min, max float64)) *Control {
	c.Bounds = bounds
	return c
}

// WithStep snaps slider edits to multiples of step.
func (c *Control) WithStep(step float64) *Control {
	c.Step = step
	return c
}

// WithAutoRefresh enables or disables dirty-diff polling for this control.
func (c *Control) WithAutoRefresh(enabled bool) *Control {
	c.AutoRefresh = enabled
	return c
}
