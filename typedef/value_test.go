package typedef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKindNames(t *testing.T) {
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "vec3", KindVec3.String())
	assert.Equal(t, "color", KindColor.String())

	kind, ok := ParseValueKind(" Vec2 ")
	assert.True(t, ok)
	assert.Equal(t, KindVec2, kind)

	_, ok = ParseValueKind("matrix")
	assert.False(t, ok)
}

func TestValueKindComponents(t *testing.T) {
	assert.Equal(t, 0, KindFloat.Components())
	assert.Equal(t, 0, KindBool.Components())
	assert.Equal(t, 2, KindVec2.Components())
	assert.Equal(t, 3, KindVec3.Components())
	assert.Equal(t, 4, KindVec4.Components())
	assert.Equal(t, 4, KindColor.Components())
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "1.50", Float(1.5).String())
	assert.Equal(t, "2", Float(1.7).Format("%.0f"))
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "(1.00, 2.00)", Vec2(1, 2).String())
	assert.Equal(t, "(1.0, 2.0, 3.0)", Vec3(1, 2, 3).Format("%.1f"))
	assert.Equal(t, "(0.10, 0.20, 0.30, 1.00)", Color(0.1, 0.2, 0.3, 1).String())
}

func TestCanonicalizeBinding(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"", "", true},
		{"  f2 ", "F2", true},
		{"F12", "F12", true},
		{"F13", "", false},
		{"a", "A", true},
		{"pgdn", "PAGEDOWN", true},
		{"esc", "ESCAPE", true},
		{"return", "ENTER", true},
		{"hyperkey", "", false},
	}
	for _, tc := range cases {
		got, ok := CanonicalizeBinding(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeKeybindsFillsInvalid(t *testing.T) {
	k := Keybinds{TogglePanel: "bogus", ManualSave: "f9", NextTab: "", PrevTab: "home"}
	NormalizeKeybinds(&k)

	assert.Equal(t, "F2", k.TogglePanel) // invalid falls back to default
	assert.Equal(t, "F9", k.ManualSave)
	assert.Equal(t, "", k.NextTab) // empty stays unbound
	assert.Equal(t, "HOME", k.PrevTab)
}
