package panel

import (
	"fmt"
	"image"

	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

var vectorComponentLabels = [4]string{"X", "Y", "Z", "W"}

// VectorRow edits a multi-component control. Each component is a small box
// the user drags horizontally to adjust; the drag step comes from the
// control's Step (0.01 per pixel by default).
type VectorRow struct {
	BaseElement
	control  *tweak.Control
	theme    Theme
	setValue func(typedef.Value)

	value typedef.Value

	dragComponent int // -1 when idle
	dragStartX    int
	dragStartVal  float64
	componentBox  [4]image.Rectangle
	hovered       bool
	bounds        image.Rectangle
}

// NewVectorRow builds a vector row; setValue receives the full vector on
// every component edit.
func NewVectorRow(c *tweak.Control, theme Theme, setValue func(typedef.Value)) *VectorRow {
	return &VectorRow{
		BaseElement:   NewBaseElement(),
		control:       c,
		theme:         theme,
		setValue:      setValue,
		value:         typedef.Value{Kind: typedef.KindVec3},
		dragComponent: -1,
	}
}

// Control returns the bound control.
func (v *VectorRow) Control() *tweak.Control { return v.control }

// Bounds returns the row rectangle from the last draw.
func (v *VectorRow) Bounds() image.Rectangle { return v.bounds }

// ValueText renders the displayed vector for copy and tooltip purposes.
func (v *VectorRow) ValueText() string {
	return v.value.Format(v.control.Format)
}

// PushValue updates the displayed vector without triggering the setter.
func (v *VectorRow) PushValue(val typedef.Value) {
	v.value = val
}

func (v *VectorRow) components() int {
	n := v.value.Kind.Components()
	if n == 0 {
		n = 3
	}
	return n
}

func (v *VectorRow) dragStep() float64 {
	if v.control.Step > 0 {
		return v.control.Step
	}
	return 0.01
}

func (v *VectorRow) Update(mx, my int, deltaTime float64) bool {
	if !v.visible {
		return false
	}

	v.updateAnimation(deltaTime)
	v.hovered = mx >= v.bounds.Min.X && mx < v.bounds.Max.X && my >= v.bounds.Min.Y && my < v.bounds.Max.Y

	if !v.control.Editable() {
		return false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i := 0; i < v.components(); i++ {
			box := v.componentBox[i]
			if mx >= box.Min.X && mx < box.Max.X && my >= box.Min.Y && my < box.Max.Y {
				v.dragComponent = i
				v.dragStartX = mx
				v.dragStartVal = v.value.Vec[i]
				return true
			}
		}
	}

	if v.dragComponent >= 0 {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			if mx < 0 {
				return true
			}
			newVal := v.dragStartVal + float64(mx-v.dragStartX)*v.dragStep()
			if newVal != v.value.Vec[v.dragComponent] {
				v.value.Vec[v.dragComponent] = newVal
				if v.setValue != nil {
					v.setValue(v.value)
				}
			}
			return true
		}
		v.dragComponent = -1
	}

	return false
}

func (v *VectorRow) Draw(screen *ebiten.Image, x, y, width int, font font.Face) int {
	if !v.visible || v.animProgress <= 0.01 {
		return 0
	}

	height := v.GetMinHeight()
	alpha := v.animProgress
	v.bounds = image.Rect(x, y, x+width, y+height)

	text.Draw(screen, v.control.Name, font, x, y+14, scaleAlpha(v.theme.Text, alpha))

	// Component boxes share the second line evenly.
	n := v.components()
	boxY := y + 22
	boxHeight := 20
	spacing := 6
	boxWidth := (width - spacing*(n-1)) / n

	format := v.control.Format
	if format == "" {
		format = "%.2f"
	}

	for i := 0; i < n; i++ {
		boxX := x + i*(boxWidth+spacing)
		v.componentBox[i] = image.Rect(boxX, boxY, boxX+boxWidth, boxY+boxHeight)

		boxColor := v.theme.RowBase
		if v.dragComponent == i {
			boxColor = v.theme.RowActive
		}
		vector.DrawFilledRect(screen, float32(boxX), float32(boxY), float32(boxWidth), float32(boxHeight), scaleAlpha(boxColor, alpha), false)
		vector.StrokeRect(screen, float32(boxX), float32(boxY), float32(boxWidth), float32(boxHeight), 1, scaleAlpha(v.theme.Border, alpha), false)

		label := fmt.Sprintf("%s "+format, vectorComponentLabels[i], v.value.Vec[i])
		labelWidth := text.BoundString(font, label).Dx()
		text.Draw(screen, label, font, boxX+(boxWidth-labelWidth)/2, boxY+boxHeight/2+5, scaleAlpha(v.theme.Text, alpha))
	}

	return height
}

func (v *VectorRow) GetMinHeight() int {
	return 48
}
