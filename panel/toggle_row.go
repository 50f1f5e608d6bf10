package panel

import (
	"image"

	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// ToggleRow renders a boolean control as a two-segment OFF/ON switch.
type ToggleRow struct {
	BaseElement
	control  *tweak.Control
	theme    Theme
	setValue func(bool)

	value      bool
	hovered    bool
	switchRect image.Rectangle
	bounds     image.Rectangle
}

// NewToggleRow builds a toggle row; setValue receives every user edit.
func NewToggleRow(c *tweak.Control, theme Theme, setValue func(bool)) *ToggleRow {
	return &ToggleRow{
		BaseElement: NewBaseElement(),
		control:     c,
		theme:       theme,
		setValue:    setValue,
	}
}

// Control returns the bound control.
func (t *ToggleRow) Control() *tweak.Control { return t.control }

// Bounds returns the row rectangle from the last draw.
func (t *ToggleRow) Bounds() image.Rectangle { return t.bounds }

// ValueText renders the displayed value for copy and tooltip purposes.
func (t *ToggleRow) ValueText() string {
	return typedef.Bool(t.value).String()
}

// PushValue updates the displayed state without triggering the setter.
func (t *ToggleRow) PushValue(v typedef.Value) {
	t.value = v.B
}

func (t *ToggleRow) Update(mx, my int, deltaTime float64) bool {
	if !t.visible {
		return false
	}

	t.updateAnimation(deltaTime)
	t.hovered = mx >= t.bounds.Min.X && mx < t.bounds.Max.X && my >= t.bounds.Min.Y && my < t.bounds.Max.Y

	if !t.control.Editable() {
		return false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if mx >= t.switchRect.Min.X && mx < t.switchRect.Max.X && my >= t.switchRect.Min.Y && my < t.switchRect.Max.Y {
			// Left half = off, right half = on; clicking the active side is a no-op.
			wantOn := mx >= t.switchRect.Min.X+t.switchRect.Dx()/2
			if wantOn != t.value {
				t.value = wantOn
				if t.setValue != nil {
					t.setValue(wantOn)
				}
			}
			return true
		}
	}

	return false
}

func (t *ToggleRow) Draw(screen *ebiten.Image, x, y, width int, font font.Face) int {
	if !t.visible || t.animProgress <= 0.01 {
		return 0
	}

	height := t.GetMinHeight()
	alpha := t.animProgress
	t.bounds = image.Rect(x, y, x+width, y+height)

	labelY := y + height/2 + 5
	text.Draw(screen, t.control.Name, font, x, labelY, scaleAlpha(t.theme.Text, alpha))

	// Switch on the right edge of the row
	switchWidth := 92
	switchHeight := 22
	switchX := x + width - switchWidth
	switchY := y + (height-switchHeight)/2
	t.switchRect = image.Rect(switchX, switchY, switchX+switchWidth, switchY+switchHeight)

	vector.DrawFilledRect(screen, float32(switchX), float32(switchY), float32(switchWidth), float32(switchHeight), scaleAlpha(t.theme.RowBase, alpha), false)

	segmentWidth := switchWidth / 2
	mx, my := ebiten.CursorPosition()
	for i, label := range [2]string{"OFF", "ON"} {
		segX := switchX + i*segmentWidth
		active := (i == 1) == t.value
		segColor := t.theme.RowBase
		if active {
			segColor = t.theme.RowActive
		} else if mx >= segX && mx < segX+segmentWidth && my >= switchY && my < switchY+switchHeight {
			segColor = t.theme.RowHover
		}
		vector.DrawFilledRect(screen, float32(segX), float32(switchY), float32(segmentWidth), float32(switchHeight), scaleAlpha(segColor, alpha), false)

		labelColor := t.theme.TextDim
		if active {
			labelColor = t.theme.Text
		}
		labelWidth := text.BoundString(font, label).Dx()
		text.Draw(screen, label, font, segX+(segmentWidth-labelWidth)/2, switchY+switchHeight/2+5, scaleAlpha(labelColor, alpha))
	}

	// Divider between segments
	vector.DrawFilledRect(screen, float32(switchX+segmentWidth-1), float32(switchY+2), 2, float32(switchHeight-4), scaleAlpha(t.theme.Background, alpha), false)
	vector.StrokeRect(screen, float32(switchX), float32(switchY), float32(switchWidth), float32(switchHeight), 1, scaleAlpha(t.theme.Border, alpha), false)

	return height
}

func (t *ToggleRow) GetMinHeight() int {
	return 30
}
