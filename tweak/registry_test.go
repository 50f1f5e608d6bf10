package tweak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakpanel/typedef"
)

type recordingObserver struct {
	changes []struct {
		control *Control
		value   typedef.Value
	}
}

func (o *recordingObserver) ControlChanged(c *Control, v typedef.Value) {
	o.changes = append(o.changes, struct {
		control *Control
		value   typedef.Value
	}{c, v})
}

func TestRegistryTabOrderAndReuse(t *testing.T) {
	reg := NewRegistry()
	a := reg.Tab("Graphics")
	b := reg.Tab("Audio")
	again := reg.Tab("Graphics")

	assert.Same(t, a, again)
	assert.Equal(t, "Audio", b.Name)
	require.Len(t, reg.Tabs(), 2)
	assert.Equal(t, "Graphics", reg.Tabs()[0].Name)
	assert.Equal(t, "Audio", reg.Tabs()[1].Name)
}

func TestRegistryBuilders(t *testing.T) {
	reg := NewRegistry()
	tab := reg.Tab("Demo")

	speed := 5.0
	on := true

	slider := tab.Slider("Speed", func() float64 { return speed }, func(v float64) { speed = v }, 0, 10)
	toggle := tab.Toggle("Enabled", func() bool { return on }, func(v bool) { on = v })
	info := tab.Info("FPS", func() typedef.Value { return typedef.Float(60) })

	assert.Equal(t, Slider, slider.Kind)
	assert.Equal(t, Toggle, toggle.Kind)
	assert.Equal(t, Info, info.Kind)
	assert.True(t, slider.Editable())
	assert.False(t, info.Editable())
	require.Len(t, tab.Controls(), 3)

	// Values flow through the closures in both directions.
	assert.InDelta(t, 5.0, slider.Get().F, 1e-12)
	slider.Set(typedef.Float(7))
	assert.InDelta(t, 7.0, speed, 1e-12)
	toggle.Set(typedef.Bool(false))
	assert.False(t, on)
}

func TestRegistryAddValidation(t *testing.T) {
	reg := NewRegistry()
	get := func() typedef.Value { return typedef.Float(0) }

	assert.Error(t, reg.Add("Tab", nil))
	assert.Error(t, reg.Add("Tab", &Control{Name: "", Get: get}))
	assert.Error(t, reg.Add("Tab", &Control{Name: "NoGetter"}))

	require.NoError(t, reg.Add("Tab", &Control{Name: "X", Get: get}))
	assert.Error(t, reg.Add("Tab", &Control{Name: "X", Get: get}))
	// Same name in another tab is fine.
	assert.NoError(t, reg.Add("Other", &Control{Name: "X", Get: get}))
}

func TestRegistryDuplicateSaveKeyRejected(t *testing.T) {
	reg := NewRegistry()
	get := func() typedef.Value { return typedef.Float(0) }

	require.NoError(t, reg.Add("A", &Control{Name: "One", Save: true, SaveKey: "shared", Get: get}))
	err := reg.Add("B", &Control{Name: "Two", Save: true, SaveKey: "shared", Get: get})
	assert.Error(t, err)

	// Unsaved controls never claim keys.
	assert.NoError(t, reg.Add("C", &Control{Name: "Three", SaveKey: "shared", Get: get}))
}

func TestControlKeyDefaultAndOverride(t *testing.T) {
	reg := NewRegistry()
	tab := reg.Tab("Graphics")

	v := 1.0
	def := tab.Slider("Bloom", func() float64 { return v }, func(x float64) { v = x }, 0, 1).WithSave()
	custom := tab.Slider("Gamma", func() float64 { return v }, func(x float64) { v = x }, 0, 1).WithSave("display.gamma")

	assert.Equal(t, "Graphics.Bloom", def.Key())
	assert.Equal(t, "display.gamma", custom.Key())
	assert.Same(t, def, reg.Find("Graphics.Bloom"))
	assert.Same(t, custom, reg.Find("display.gamma"))
	assert.Nil(t, reg.Find("missing"))
}

func TestWithSaveAfterRegistrationIndexesKey(t *testing.T) {
	reg := NewRegistry()
	tab := reg.Tab("Graphics")

	v := 1.0
	// The fluent path flags persistence after the builder registered the
	// control; the key index must pick that up.
	c := tab.Slider("Bloom", func() float64 { return v }, func(x float64) { v = x }, 0, 1).WithSave()
	assert.Same(t, c, reg.Find("Graphics.Bloom"))

	// Re-keying moves the index entry instead of leaving the old key live.
	c.WithSave("display.bloom")
	assert.Same(t, c, reg.Find("display.bloom"))
	assert.Nil(t, reg.Find("Graphics.Bloom"))
}

func TestWithSaveDuplicateKeyStaysUnsaved(t *testing.T) {
	reg := NewRegistry()
	tab := reg.Tab("Graphics")

	v := 1.0
	first := tab.Slider("Bloom", func() float64 { return v }, func(x float64) { v = x }, 0, 1).WithSave("shared")
	second := tab.Slider("Gamma", func() float64 { return v }, func(x float64) { v = x }, 0, 1).WithSave("shared")

	assert.Same(t, first, reg.Find("shared"))
	assert.True(t, first.Save)
	// The conflicting control never shadows the original and never joins
	// the persisted dataset.
	assert.False(t, second.Save)
}

func TestRegistrySetValueNotifiesObservers(t *testing.T) {
	reg := NewRegistry()
	tab := reg.Tab("Demo")

	speed := 1.0
	c := tab.Slider("Speed", func() float64 { return speed }, func(v float64) { speed = v }, 0, 10)

	obs := &recordingObserver{}
	reg.Observe(obs)

	reg.SetValue(c, typedef.Float(3))
	require.Len(t, obs.changes, 1)
	assert.Same(t, c, obs.changes[0].control)
	assert.InDelta(t, 3.0, obs.changes[0].value.F, 1e-12)
	assert.InDelta(t, 3.0, speed, 1e-12)

	// Writing straight through the setter bypasses observers.
	c.Set(typedef.Float(5))
	assert.Len(t, obs.changes, 1)

	// Read-only controls ignore writes instead of panicking.
	info := tab.Info("FPS", func() typedef.Value { return typedef.Float(60) })
	reg.SetValue(info, typedef.Float(1))
	assert.Len(t, obs.changes, 1)
}

func TestCurrentBoundsPrefersDynamicSupplier(t *testing.T) {
	limit := 10.0
	c := &Control{
		Name: "count",
		Kind: Slider,
		Min:  0,
		Max:  5,
		Get:  func() typedef.Value { return typedef.Float(0) },
	}

	min, max := c.CurrentBounds()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 5.0, max)

	c.WithBounds(func() (float64, float64) { return 0, limit })
	_, max = c.CurrentBounds()
	assert.Equal(t, 10.0, max)

	limit = 20
	_, max = c.CurrentBounds()
	assert.Equal(t, 20.0, max)
}

func TestLookupAndControls(t *testing.T) {
	reg := NewRegistry()
	get := func() typedef.Value { return typedef.Float(0) }
	require.NoError(t, reg.Add("A", &Control{Name: "One", Get: get}))
	require.NoError(t, reg.Add("B", &Control{Name: "Two", Get: get}))

	assert.NotNil(t, reg.Lookup("A", "One"))
	assert.Nil(t, reg.Lookup("A", "Two"))
	assert.Nil(t, reg.Lookup("Missing", "One"))
	assert.Len(t, reg.Controls(), 2)
}
