package panel

import (
	"image"
	"math"

	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// SliderRow is the draggable slider widget for a float control. The
// refresher pushes both the displayed value and the current range into it;
// user drags go back out through setValue.
type SliderRow struct {
	BaseElement
	control  *tweak.Control
	theme    Theme
	setValue func(float64)

	value    float64
	min, max float64

	dragging   bool
	hovered    bool
	sliderRect image.Rectangle
	bounds     image.Rectangle
}

// NewSliderRow builds a slider row; setValue receives every user edit.
func NewSliderRow(c *tweak.Control, theme Theme, setValue func(float64)) *SliderRow {
	min, max := c.CurrentBounds()
	return &SliderRow{
		BaseElement: NewBaseElement(),
		control:     c,
		theme:       theme,
		setValue:    setValue,
		min:         min,
		max:         max,
	}
}

// Control returns the bound control.
func (s *SliderRow) Control() *tweak.Control { return s.control }

// Bounds returns the row rectangle from the last draw.
func (s *SliderRow) Bounds() image.Rectangle { return s.bounds }

// ValueText renders the displayed value for copy and tooltip purposes.
func (s *SliderRow) ValueText() string {
	return typedef.Float(s.value).Format(s.control.Format)
}

// PushValue updates the displayed value without triggering the setter.
func (s *SliderRow) PushValue(v typedef.Value) {
	s.value = v.F
}

// PushBounds updates the displayed range. Called by the refresher only when
// a bound actually moved.
func (s *SliderRow) PushBounds(min, max float64) {
	s.min, s.max = min, max
}

func (s *SliderRow) Update(mx, my int, deltaTime float64) bool {
	if !s.visible {
		return false
	}

	s.updateAnimation(deltaTime)
	s.hovered = mx >= s.bounds.Min.X && mx < s.bounds.Max.X && my >= s.bounds.Min.Y && my < s.bounds.Max.Y

	if !s.control.Editable() {
		return false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if mx >= s.sliderRect.Min.X && mx < s.sliderRect.Max.X && my >= s.sliderRect.Min.Y && my < s.sliderRect.Max.Y {
			s.dragging = true
			s.dragTo(mx)
			return true
		}
	}

	if s.dragging {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			s.dragTo(mx)
			return true
		}
		s.dragging = false
	}

	return false
}

func (s *SliderRow) dragTo(mx int) {
	width := s.sliderRect.Dx()
	if mx < 0 || width <= 0 || s.max <= s.min {
		return
	}
	ratio := float64(mx-s.sliderRect.Min.X) / float64(width)
	ratio = math.Max(0, math.Min(1, ratio))

	newValue := s.min + ratio*(s.max-s.min)
	if s.control.Step > 0 {
		newValue = math.Round(newValue/s.control.Step) * s.control.Step
		newValue = math.Max(s.min, math.Min(s.max, newValue))
	}

	if newValue != s.value {
		s.value = newValue
		if s.setValue != nil {
			s.setValue(newValue)
		}
	}
}

func (s *SliderRow) Draw(screen *ebiten.Image, x, y, width int, font font.Face) int {
	if !s.visible || s.animProgress <= 0.01 {
		return 0
	}

	height := s.GetMinHeight()
	alpha := s.animProgress
	s.bounds = image.Rect(x, y, x+width, y+height)

	// Label on the first line, formatted value right-aligned
	labelY := y + 14
	textColor := scaleAlpha(s.theme.Text, alpha)
	text.Draw(screen, s.control.Name, font, x, labelY, textColor)

	valueText := s.ValueText()
	valueWidth := text.BoundString(font, valueText).Dx()
	text.Draw(screen, valueText, font, x+width-valueWidth, labelY, scaleAlpha(s.theme.TextDim, alpha))

	// Track below the label
	trackY := y + 30
	trackHeight := 14
	trackX := x + 5
	trackWidth := width - 10
	s.sliderRect = image.Rect(trackX, trackY-trackHeight/2, trackX+trackWidth, trackY+trackHeight/2)

	vector.DrawFilledRect(screen, float32(trackX), float32(trackY-trackHeight/2), float32(trackWidth), float32(trackHeight), scaleAlpha(s.theme.RowBase, alpha), false)

	fillRatio := 0.0
	if s.max > s.min {
		fillRatio = math.Max(0, math.Min(1, (s.value-s.min)/(s.max-s.min)))
	}
	fillWidth := float32(trackWidth) * float32(fillRatio)
	vector.DrawFilledRect(screen, float32(trackX), float32(trackY-trackHeight/2), fillWidth, float32(trackHeight), scaleAlpha(s.theme.Fill, alpha), false)

	handleX := float32(trackX) + fillWidth - 4
	vector.DrawFilledRect(screen, handleX, float32(trackY-trackHeight/2), 8, float32(trackHeight), scaleAlpha(s.theme.Handle, alpha), false)

	return height
}

func (s *SliderRow) GetMinHeight() int {
	return 42
}
