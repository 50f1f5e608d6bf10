package panel

import (
	"image"

	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// InfoRow is the read-only display widget: label on the left, the last
// pushed value rendered on the right.
type InfoRow struct {
	BaseElement
	control *tweak.Control
	theme   Theme

	valueText string
	hovered   bool
	bounds    image.Rectangle
}

// NewInfoRow builds an info row for a read-only control.
func NewInfoRow(c *tweak.Control, theme Theme) *InfoRow {
	return &InfoRow{
		BaseElement: NewBaseElement(),
		control:     c,
		theme:       theme,
		valueText:   "-",
	}
}

// Control returns the bound control.
func (i *InfoRow) Control() *tweak.Control { return i.control }

// Bounds returns the row rectangle from the last draw.
func (i *InfoRow) Bounds() image.Rectangle { return i.bounds }

// ValueText returns the currently displayed text.
func (i *InfoRow) ValueText() string { return i.valueText }

// PushValue formats and stores the new display text. Only the refresher
// calls this, and only when the value actually changed.
func (i *InfoRow) PushValue(v typedef.Value) {
	i.valueText = v.Format(i.control.Format)
}

func (i *InfoRow) Update(mx, my int, deltaTime float64) bool {
	i.updateAnimation(deltaTime)
	i.hovered = mx >= i.bounds.Min.X && mx < i.bounds.Max.X && my >= i.bounds.Min.Y && my < i.bounds.Max.Y
	return false
}

func (i *InfoRow) Draw(screen *ebiten.Image, x, y, width int, font font.Face) int {
	if !i.visible || i.animProgress <= 0.01 {
		return 0
	}

	height := i.GetMinHeight()
	alpha := i.animProgress
	i.bounds = image.Rect(x, y, x+width, y+height)

	textY := y + height/2 + 5
	text.Draw(screen, i.control.Name, font, x, textY, scaleAlpha(i.theme.TextDim, alpha))

	valueWidth := text.BoundString(font, i.valueText).Dx()
	text.Draw(screen, i.valueText, font, x+width-valueWidth, textY, scaleAlpha(i.theme.Text, alpha))

	return height
}

func (i *InfoRow) GetMinHeight() int {
	return 24
}
