package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakpanel/tweak"
	"tweakpanel/typedef"
)

func demoRegistry() (*tweak.Registry, *float64, *bool) {
	reg := tweak.NewRegistry()
	tab := reg.Tab("Graphics")
	speed := 5.0
	vsync := true
	tab.Slider("Speed", func() float64 { return speed }, func(v float64) { speed = v }, 0, 10).
		WithSave().
		WithTooltip("units per second")
	tab.Toggle("VSync", func() bool { return vsync }, func(v bool) { vsync = v })
	tab.Info("FPS", func() typedef.Value { return typedef.Float(60) })
	return reg, &speed, &vsync
}

func TestPayloadRoundTrip(t *testing.T) {
	for _, v := range []typedef.Value{
		typedef.Float(3.25),
		typedef.Bool(true),
		typedef.Vec2(1, 2),
		typedef.Vec3(1, 2, 3),
		typedef.Color(0.1, 0.2, 0.3, 1),
	} {
		p := payloadFromValue(v)
		back, err := p.toValue()
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestPayloadToValueErrors(t *testing.T) {
	_, err := ValuePayload{Kind: "matrix"}.toValue()
	assert.Error(t, err)

	_, err = ValuePayload{Kind: "vec3", Vec: []float64{1, 2}}.toValue()
	assert.Error(t, err)
}

func TestDecodeSetRequest(t *testing.T) {
	req, err := decodeSetRequest(map[string]interface{}{
		"tab":   "Graphics",
		"name":  "Speed",
		"value": map[string]interface{}{"kind": "float", "float": 7.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "Graphics", req.Tab)
	assert.Equal(t, "Speed", req.Name)
	assert.Equal(t, 7.5, req.Value.Float)

	_, err = decodeSetRequest(map[string]interface{}{"value": map[string]interface{}{}})
	assert.Error(t, err)
}

func TestCatalogSnapshot(t *testing.T) {
	reg, _, _ := demoRegistry()
	s := NewServer("127.0.0.1:0", reg)

	require.Len(t, s.catalog, 3)
	slider := s.catalog[0]
	assert.Equal(t, "Graphics", slider.Tab)
	assert.Equal(t, "Speed", slider.Name)
	assert.Equal(t, "slider", slider.Kind)
	assert.Equal(t, "Graphics.Speed", slider.Key)
	assert.Equal(t, "units per second", slider.Tooltip)
	assert.True(t, slider.Editable)
	assert.True(t, slider.Saved)
	assert.Equal(t, 10.0, slider.Max)

	info := s.catalog[2]
	assert.Equal(t, "info", info.Kind)
	assert.False(t, info.Editable)
	assert.Empty(t, info.Key)
}

func TestApplyPendingRoutesThroughRegistry(t *testing.T) {
	reg, speed, _ := demoRegistry()
	s := NewServer("127.0.0.1:0", reg)

	obs := &countingObserver{}
	reg.Observe(obs)

	s.mu.Lock()
	s.pending = append(s.pending,
		SetRequest{Tab: "Graphics", Name: "Speed", Value: ValuePayload{Kind: "float", Float: 8}},
		SetRequest{Tab: "Graphics", Name: "FPS", Value: ValuePayload{Kind: "float", Float: 1}},   // read-only
		SetRequest{Tab: "Missing", Name: "Speed", Value: ValuePayload{Kind: "float", Float: 1}},  // unknown
		SetRequest{Tab: "Graphics", Name: "Speed", Value: ValuePayload{Kind: "vec3", Vec: nil}},  // bad payload
	)
	s.mu.Unlock()

	assert.Equal(t, 1, s.ApplyPending())
	assert.InDelta(t, 8.0, *speed, 1e-12)
	// Remote writes hit observers exactly like local edits.
	assert.Equal(t, 1, obs.notified)

	// The queue drains even when entries are rejected.
	assert.Equal(t, 0, s.ApplyPending())
}

type countingObserver struct{ notified int }

func (o *countingObserver) ControlChanged(*tweak.Control, typedef.Value) { o.notified++ }

func TestRemoteDisplayCachesLatest(t *testing.T) {
	reg, _, _ := demoRegistry()
	s := NewServer("127.0.0.1:0", reg)

	c := reg.Lookup("Graphics", "Speed")
	require.NotNil(t, c)
	d := &remoteDisplay{server: s, control: c}

	d.PushValue(typedef.Float(5))
	d.PushValue(typedef.Float(6))

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.order, 1)
	update := s.latest["Graphics/Speed"]
	assert.Equal(t, 6.0, update.Value.Float)
}
