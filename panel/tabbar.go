package panel

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// TabBar renders the row of tab headers and tracks the active tab index.
type TabBar struct {
	theme    Theme
	names    []string
	active   int
	tabRects []image.Rectangle
	onSelect func(index int)
}

// NewTabBar builds the tab strip; onSelect fires when the user switches tabs.
func NewTabBar(theme Theme, onSelect func(index int)) *TabBar {
	return &TabBar{theme: theme, onSelect: onSelect}
}

// SetNames replaces the tab headers, keeping the active index in range.
func (tb *TabBar) SetNames(names []string) {
	tb.names = names
	if tb.active >= len(names) {
		tb.active = 0
	}
}

// Active returns the selected tab index.
func (tb *TabBar) Active() int { return tb.active }

// Select activates the tab at index, wrapping around either end.
func (tb *TabBar) Select(index int) {
	if len(tb.names) == 0 {
		return
	}
	tb.active = ((index % len(tb.names)) + len(tb.names)) % len(tb.names)
	if tb.onSelect != nil {
		tb.onSelect(tb.active)
	}
}

// Update handles tab header clicks.
func (tb *TabBar) Update(mx, my int) bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	for i, rect := range tb.tabRects {
		if mx >= rect.Min.X && mx < rect.Max.X && my >= rect.Min.Y && my < rect.Max.Y {
			if i != tb.active {
				tb.Select(i)
			}
			return true
		}
	}
	return false
}

// Draw renders the tab strip and returns its height.
func (tb *TabBar) Draw(screen *ebiten.Image, x, y, width int, fnt font.Face, alpha float64) int {
	if len(tb.names) == 0 {
		return 0
	}

	height := 28
	tabWidth := width / len(tb.names)
	if tb.tabRects == nil || len(tb.tabRects) != len(tb.names) {
		tb.tabRects = make([]image.Rectangle, len(tb.names))
	}

	mx, my := ebiten.CursorPosition()
	for i, name := range tb.names {
		tabX := x + i*tabWidth
		w := tabWidth
		if i == len(tb.names)-1 {
			w = width - i*tabWidth // absorb rounding in the last tab
		}
		tb.tabRects[i] = image.Rect(tabX, y, tabX+w, y+height)

		tabColor := tb.theme.RowBase
		if i == tb.active {
			tabColor = tb.theme.RowActive
		} else if mx >= tabX && mx < tabX+w && my >= y && my < y+height {
			tabColor = tb.theme.RowHover
		}
		vector.DrawFilledRect(screen, float32(tabX), float32(y), float32(w), float32(height), scaleAlpha(tabColor, alpha), false)

		labelColor := tb.theme.TextDim
		if i == tb.active {
			labelColor = tb.theme.Text
		}
		labelWidth := text.BoundString(fnt, name).Dx()
		text.Draw(screen, name, fnt, tabX+(w-labelWidth)/2, y+height/2+5, scaleAlpha(labelColor, alpha))
	}

	// Underline the strip
	vector.DrawFilledRect(screen, float32(x), float32(y+height), float32(width), 2, scaleAlpha(tb.theme.Border, alpha), false)

	return height + 2
}
