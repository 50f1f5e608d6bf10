// Package panel renders the in-game debug control panel: an edge-docked
// ebiten overlay whose rows are built from a tweak.Registry. The panel owns
// the per-frame wiring between widgets, the dirty-diff refresher, and the
// autosave policy.
package panel

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
)

// Element is one row of the panel.
type Element interface {
	Update(mx, my int, deltaTime float64) bool                      // Returns true if handled input
	Draw(screen *ebiten.Image, x, y, width int, font font.Face) int // Returns height used
	GetMinHeight() int
	IsVisible() bool
	SetVisible(visible bool)
}

// BaseElement provides visibility and show/hide animation shared by rows.
type BaseElement struct {
	visible      bool
	animProgress float64
	animTarget   float64
	animSpeed    float64
}

func NewBaseElement() BaseElement {
	return BaseElement{
		visible:      true,
		animProgress: 1.0,
		animTarget:   1.0,
		animSpeed:    8.0,
	}
}

func (b *BaseElement) IsVisible() bool {
	return b.visible
}

func (b *BaseElement) SetVisible(visible bool) {
	b.visible = visible
	b.animTarget = 0.0
	if visible {
		b.animTarget = 1.0
	}
}

func (b *BaseElement) updateAnimation(deltaTime float64) {
	if math.Abs(b.animProgress-b.animTarget) > 0.01 {
		diff := b.animTarget - b.animProgress
		b.animProgress += diff * b.animSpeed * deltaTime
	} else {
		b.animProgress = b.animTarget
	}
}

// Theme collects the palette shared by all rows.
type Theme struct {
	Background   color.RGBA
	Border       color.RGBA
	RowBase      color.RGBA
	RowActive    color.RGBA
	RowHover     color.RGBA
	Fill         color.RGBA
	Handle       color.RGBA
	Text         color.RGBA
	TextDim      color.RGBA
	TooltipBack  color.RGBA
	TooltipText  color.RGBA
	IndicatorOK  color.RGBA
	IndicatorBad color.RGBA
}

// DefaultTheme returns the stock dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background:   color.RGBA{30, 30, 45, 240},
		Border:       color.RGBA{80, 80, 255, 150},
		RowBase:      color.RGBA{40, 40, 60, 255},
		RowActive:    color.RGBA{80, 120, 200, 255},
		RowHover:     color.RGBA{70, 70, 100, 255},
		Fill:         color.RGBA{100, 150, 255, 255},
		Handle:       color.RGBA{255, 255, 255, 255},
		Text:         color.RGBA{255, 255, 255, 255},
		TextDim:      color.RGBA{180, 180, 180, 255},
		TooltipBack:  color.RGBA{20, 20, 30, 245},
		TooltipText:  color.RGBA{230, 230, 230, 255},
		IndicatorOK:  color.RGBA{60, 160, 80, 230},
		IndicatorBad: color.RGBA{180, 60, 60, 230},
	}
}

func scaleAlpha(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(float64(c.A) * alpha)
	return c
}
