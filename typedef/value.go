package typedef

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindFloat ValueKind = iota
	KindBool
	KindVec2
	KindVec3
	KindVec4
	KindColor
)

// String returns the canonical lowercase name used in persisted data and API payloads.
func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// ParseValueKind maps a persisted kind name back to its ValueKind.
func ParseValueKind(name string) (ValueKind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float":
		return KindFloat, true
	case "bool":
		return KindBool, true
	case "vec2":
		return KindVec2, true
	case "vec3":
		return KindVec3, true
	case "vec4":
		return KindVec4, true
	case "color":
		return KindColor, true
	default:
		return 0, false
	}
}

// Components returns how many vector components the kind carries (0 for scalars).
func (k ValueKind) Components() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4, KindColor:
		return 4
	default:
		return 0
	}
}

// Value is a tagged variant for everything a control can expose.
// Vector components live in Vec[:Kind.Components()]; Color uses all four
// as RGBA in the 0-1 range.
type Value struct {
	Kind ValueKind
	F    float64
	B    bool
	Vec  [4]float64
}

// Float wraps a float64 into a Value.
func Float(v float64) Value {
	return Value{Kind: KindFloat, F: v}
}

// Bool wraps a bool into a Value.
func Bool(v bool) Value {
	return Value{Kind: KindBool, B: v}
}

// Vec2 builds a two-component vector Value.
func Vec2(x, y float64) Value {
	return Value{Kind: KindVec2, Vec: [4]float64{x, y}}
}

// Vec3 builds a three-component vector Value.
func Vec3(x, y, z float64) Value {
	return Value{Kind: KindVec3, Vec: [4]float64{x, y, z}}
}

// Vec4 builds a four-component vector Value.
func Vec4(x, y, z, w float64) Value {
	return Value{Kind: KindVec4, Vec: [4]float64{x, y, z, w}}
}

// Color builds an RGBA color Value with components in the 0-1 range.
func Color(r, g, b, a float64) Value {
	return Value{Kind: KindColor, Vec: [4]float64{r, g, b, a}}
}

// Format renders the value using the given printf verb for numeric parts.
// An empty format falls back to "%.2f".
func (v Value) Format(format string) string {
	if format == "" {
		format = "%.2f"
	}
	switch v.Kind {
	case KindFloat:
		return fmt.Sprintf(format, v.F)
	case KindBool:
		return strconv.FormatBool(v.B)
	default:
		n := v.Kind.Components()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = fmt.Sprintf(format, v.Vec[i])
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// String renders the value with the default numeric format.
func (v Value) String() string {
	return v.Format("")
}
