package panel

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// Indicator is the transient save-status badge in the panel's corner. Each
// Flash arms a hide deadline checked per frame; there is no timer goroutine.
type Indicator struct {
	theme    Theme
	duration time.Duration

	message string
	failed  bool
	hideAt  time.Time
}

// NewIndicator builds the indicator with its auto-hide duration.
func NewIndicator(theme Theme, duration time.Duration) *Indicator {
	return &Indicator{theme: theme, duration: duration}
}

// Flash shows a message until the auto-hide deadline.
func (ind *Indicator) Flash(message string, failed bool, now time.Time) {
	ind.message = message
	ind.failed = failed
	ind.hideAt = now.Add(ind.duration)
}

// Visible reports whether the badge still shows at the given time.
func (ind *Indicator) Visible(now time.Time) bool {
	return ind.message != "" && now.Before(ind.hideAt)
}

// Draw renders the badge anchored to the panel's top-right content corner.
func (ind *Indicator) Draw(screen *ebiten.Image, right, top int, fnt font.Face, now time.Time) {
	if !ind.Visible(now) {
		return
	}

	padding := 6
	textWidth := text.BoundString(fnt, ind.message).Dx()
	boxWidth := textWidth + padding*2
	boxHeight := 22
	x := right - boxWidth
	y := top

	back := ind.theme.IndicatorOK
	if ind.failed {
		back = ind.theme.IndicatorBad
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxWidth), float32(boxHeight), back, false)
	text.Draw(screen, ind.message, fnt, x+padding, y+boxHeight/2+5, ind.theme.Text)
}
