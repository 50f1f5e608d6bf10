package panel

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// Tooltip shows a control's help text near the cursor once the mouse has
// rested on the same row for the configured delay.
type Tooltip struct {
	theme   Theme
	delay   float64
	offsetX int
	offsetY int

	current   string
	hoverTime float64
}

// NewTooltip builds the tooltip manager.
func NewTooltip(theme Theme, delay float64, offsetX, offsetY int) *Tooltip {
	return &Tooltip{
		theme:   theme,
		delay:   delay,
		offsetX: offsetX,
		offsetY: offsetY,
	}
}

// Update advances the hover timer. Pass the tooltip text of the hovered row,
// or "" when nothing relevant is hovered; changing rows restarts the delay.
func (t *Tooltip) Update(hoveredText string, deltaTime float64) {
	if hoveredText != t.current {
		t.current = hoveredText
		t.hoverTime = 0
		return
	}
	if t.current != "" {
		t.hoverTime += deltaTime
	}
}

// Visible reports whether the delay elapsed with text to show.
func (t *Tooltip) Visible() bool {
	return t.current != "" && t.hoverTime >= t.delay
}

// Draw renders the tooltip near the cursor, clamped to the screen.
func (t *Tooltip) Draw(screen *ebiten.Image, fnt font.Face) {
	if !t.Visible() {
		return
	}

	lines := strings.Split(t.current, "\n")
	lineHeight := 16
	padding := 6

	boxWidth := 0
	for _, line := range lines {
		if w := text.BoundString(fnt, line).Dx(); w > boxWidth {
			boxWidth = w
		}
	}
	boxWidth += padding * 2
	boxHeight := len(lines)*lineHeight + padding*2

	mx, my := ebiten.CursorPosition()
	x := mx + t.offsetX
	y := my + t.offsetY

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	if x+boxWidth > screenW {
		x = screenW - boxWidth
	}
	if y+boxHeight > screenH {
		y = my - boxHeight - 4
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxWidth), float32(boxHeight), t.theme.TooltipBack, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(boxWidth), float32(boxHeight), 1, t.theme.Border, false)

	for i, line := range lines {
		text.Draw(screen, line, fnt, x+padding, y+padding+(i+1)*lineHeight-4, t.theme.TooltipText)
	}
}
