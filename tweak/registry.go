package tweak

import (
	"fmt"
	"log"

	"tweakpanel/typedef"
)

// Observer receives a callback whenever a control value is written through
// the registry. Observers are registered explicitly at construction time;
// there is no ambient global event bus.
type Observer interface {
	ControlChanged(c *Control, v typedef.Value)
}

// Tab is an ordered group of controls under a display name.
type Tab struct {
	Name string

	reg      *Registry
	controls []*Control
}

// Controls returns the tab's controls in registration order.
func (t *Tab) Controls() []*Control {
	return t.controls
}

// Registry owns the full tab/control catalog and routes every value write
// so observers (autosave, remote API) see each change exactly once.
type Registry struct {
	tabs      []*Tab
	byName    map[string]*Tab
	saveKeys  map[string]*Control
	observers []Observer
}

// NewRegistry creates an empty control registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Tab),
		saveKeys: make(map[string]*Control),
	}
}

// Tab returns the named tab, creating it at the end of the tab order when it
// does not exist yet.
func (r *Registry) Tab(name string) *Tab {
	if t, ok := r.byName[name]; ok {
		return t
	}
	t := &Tab{Name: name, reg: r}
	r.byName[name] = t
	r.tabs = append(r.tabs, t)
	return t
}

// Tabs returns all tabs in creation order.
func (r *Registry) Tabs() []*Tab {
	return r.tabs
}

// Controls returns every control, tab by tab, in registration order.
func (r *Registry) Controls() []*Control {
	var out []*Control
	for _, t := range r.tabs {
		out = append(out, t.controls...)
	}
	return out
}

// Find looks a control up by its persisted key. It returns nil for unknown
// keys, including controls without the save flag.
func (r *Registry) Find(key string) *Control {
	return r.saveKeys[key]
}

// Lookup finds a control by tab and name.
func (r *Registry) Lookup(tab, name string) *Control {
	t, ok := r.byName[tab]
	if !ok {
		return nil
	}
	for _, c := range t.controls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Observe registers an observer for all subsequent value writes.
func (r *Registry) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

// SetValue writes a value through the control's setter and notifies every
// observer. All edits (widgets, remote API, loaded data) go through here.
func (r *Registry) SetValue(c *Control, v typedef.Value) {
	if c == nil || c.Set == nil {
		return
	}
	c.Set(v)
	for _, o := range r.observers {
		o.ControlChanged(c, v)
	}
}

// Add validates and registers a control under the given tab. It rejects
// empty names, missing getters, duplicate (tab, name) pairs, and duplicate
// persisted keys among save-flagged controls.
func (r *Registry) Add(tab string, c *Control) error {
	if c == nil {
		return fmt.Errorf("add control: nil control")
	}
	if c.Name == "" {
		return fmt.Errorf("add control in tab %q: empty name", tab)
	}
	if c.Get == nil {
		return fmt.Errorf("add control %q: nil getter", c.Name)
	}
	t := r.Tab(tab)
	if existing := r.Lookup(tab, c.Name); existing != nil {
		return fmt.Errorf("add control %q: already registered in tab %q", c.Name, tab)
	}
	c.tab = tab
	c.reg = r
	if c.Save {
		if err := r.registerSaveKey(c); err != nil {
			return fmt.Errorf("add control %q: %w", c.Name, err)
		}
	}
	t.controls = append(t.controls, c)
	return nil
}

// registerSaveKey indexes a save-flagged control under its persisted key.
// Add calls it for controls flagged up front; WithSave calls it when the
// flag arrives after registration.
func (r *Registry) registerSaveKey(c *Control) error {
	key := c.Key()
	if existing, taken := r.saveKeys[key]; taken && existing != c {
		return fmt.Errorf("persisted key %q already in use", key)
	}
	r.saveKeys[key] = c
	return nil
}

// add registers via Add and logs instead of failing, so the fluent builders
// stay chainable. A duplicate returns the already-registered control.
func (t *Tab) add(c *Control) *Control {
	if err := t.reg.Add(t.Name, c); err != nil {
		log.Printf("[TWEAK] %v", err)
		if existing := t.reg.Lookup(t.Name, c.Name); existing != nil {
			return existing
		}
	}
	return c
}

// Slider registers a float control with a draggable range.
func (t *Tab) Slider(name string, get func() float64, set func(float64), min, max float64) *Control {
	return t.add(&Control{
		Name:        name,
		Kind:        Slider,
		Min:         min,
		Max:         max,
		AutoRefresh: true,
		Get:         func() typedef.Value { return typedef.Float(get()) },
		Set:         func(v typedef.Value) { set(v.F) },
	})
}

// Toggle registers a boolean on/off control.
func (t *Tab) Toggle(name string, get func() bool, set func(bool)) *Control {
	return t.add(&Control{
		Name:        name,
		Kind:        Toggle,
		AutoRefresh: true,
		Get:         func() typedef.Value { return typedef.Bool(get()) },
		Set:         func(v typedef.Value) { set(v.B) },
	})
}

// Info registers a read-only display control.
func (t *Tab) Info(name string, get func() typedef.Value) *Control {
	return t.add(&Control{
		Name:        name,
		Kind:        Info,
		AutoRefresh: true,
		Get:         get,
	})
}

// Vector registers a multi-component control; the component count comes from
// the values the getter produces.
func (t *Tab) Vector(name string, get func() typedef.Value, set func(typedef.Value)) *Control {
	return t.add(&Control{
		Name:        name,
		Kind:        Vector,
		AutoRefresh: true,
		Get:         get,
		Set:         set,
	})
}
