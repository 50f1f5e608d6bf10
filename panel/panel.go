package panel

import (
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"tweakpanel/persist"
	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// controlRow is what every widget row exposes to the panel on top of the
// basic Element contract.
type controlRow interface {
	Element
	Control() *tweak.Control
	Bounds() image.Rectangle
	ValueText() string
	PushValue(v typedef.Value)
}

// Panel is the edge-docked overlay. It owns the widget rows, the tab bar,
// the tooltip, the save indicator, and the per-frame wiring of the autosave
// policy and the dirty-diff refresher. Everything runs inside the host's
// Update/Draw callbacks; the panel starts no goroutines.
type Panel struct {
	title string
	opts  Options
	theme Theme

	reg       *tweak.Registry
	store     persist.Store
	autosave  *tweak.Autosave
	refresher *tweak.Refresher

	tabBar    *TabBar
	tooltip   *Tooltip
	indicator *Indicator
	rowsByTab [][]controlRow

	visible      bool
	animating    bool
	animProgress float64
	animTarget   float64

	screenWidth  int
	screenHeight int
	bounds       image.Rectangle
	closeButton  image.Rectangle

	scrollOffset int
	maxScroll    int
	scrollTarget float64

	font      font.Face
	titleFont font.Face
}

// New builds a panel over an already-populated registry. The registry is
// required wiring; without it the panel cannot display and construction
// fails. Persisted values load immediately, before the first frame.
func New(reg *tweak.Registry, opts Options) (*Panel, error) {
	if reg == nil {
		return nil, fmt.Errorf("panel: nil registry")
	}
	opts.normalize()
	initClipboard()

	theme := DefaultTheme()
	codec := persist.NewCodec(opts.Precision)
	var store persist.Store
	switch opts.Backend {
	case "prefs":
		store = persist.NewPrefStore(opts.SaveFile, codec)
	default:
		store = persist.NewFileStore(opts.SaveFile, codec)
	}

	tracker := &tweak.ChangeTracker{}
	p := &Panel{
		title: "Tweaks",
		opts:  opts,
		theme: theme,
		reg:   reg,
		store: store,
		autosave: tweak.NewAutosave(
			tweak.ParseAutosaveMode(opts.AutosaveMode),
			time.Duration(opts.DebounceDelaySec*float64(time.Second)),
			time.Duration(opts.SaveIntervalSec*float64(time.Second)),
			tracker,
		),
		refresher: tweak.NewRefresher(
			tweak.ParseRefreshMode(opts.RefreshMode),
			time.Duration(opts.RefreshIntervalSec*float64(time.Second)),
		),
		tooltip:   NewTooltip(theme, opts.TooltipDelaySec, opts.TooltipOffsetX, opts.TooltipOffsetY),
		indicator: NewIndicator(theme, time.Duration(opts.IndicatorSec*float64(time.Second))),
		font:      loadPanelFont(14),
		titleFont: loadPanelFont(20),
	}
	p.tabBar = NewTabBar(theme, func(int) { p.scrollTarget = 0; p.scrollOffset = 0 })

	if loaded := store.Load(); len(loaded) > 0 {
		applied := persist.Apply(reg, loaded)
		log.Printf("[PANEL] restored %d/%d saved values from %s", applied, len(loaded), opts.SaveFile)
	}

	p.buildRows()
	reg.Observe(p)

	if opts.ShowOnStart {
		p.Show()
	}
	return p, nil
}

// buildRows creates one widget row per control and registers every row with
// the refresher, then primes all displays with one pass.
func (p *Panel) buildRows() {
	p.refresher.Reset()
	p.rowsByTab = nil

	names := make([]string, 0, len(p.reg.Tabs()))
	for _, tab := range p.reg.Tabs() {
		names = append(names, tab.Name)
		rows := make([]controlRow, 0, len(tab.Controls()))
		for _, c := range tab.Controls() {
			row := p.newRow(c)
			rows = append(rows, row)
			p.refresher.Watch(c, row)
		}
		p.rowsByTab = append(p.rowsByTab, rows)
	}
	p.tabBar.SetNames(names)

	// Prime displays so the first frame shows real values.
	p.refresher.Run()
}

func (p *Panel) newRow(c *tweak.Control) controlRow {
	switch c.Kind {
	case tweak.Slider:
		return NewSliderRow(c, p.theme, func(v float64) {
			p.reg.SetValue(c, typedef.Float(v))
		})
	case tweak.Toggle:
		return NewToggleRow(c, p.theme, func(v bool) {
			p.reg.SetValue(c, typedef.Bool(v))
		})
	case tweak.Vector:
		return NewVectorRow(c, p.theme, func(v typedef.Value) {
			p.reg.SetValue(c, v)
		})
	default:
		return NewInfoRow(c, p.theme)
	}
}

// ControlChanged implements tweak.Observer: every write routed through the
// registry marks the tracker, and immediate mode flushes on the spot.
func (p *Panel) ControlChanged(c *tweak.Control, _ typedef.Value) {
	if !c.Save {
		return
	}
	if p.autosave.NoteChange(time.Now()) {
		p.flush()
	}
}

// Registry returns the control catalog the panel displays.
func (p *Panel) Registry() *tweak.Registry { return p.reg }

// Refresher returns the dirty-diff refresher, so additional displays (the
// remote API) can watch controls.
func (p *Panel) Refresher() *tweak.Refresher { return p.refresher }

// SetTitle changes the panel heading.
func (p *Panel) SetTitle(title string) { p.title = title }

// Show slides the panel in.
func (p *Panel) Show() {
	p.visible = true
	p.animating = true
	p.animTarget = 1.0
}

// Hide slides the panel out.
func (p *Panel) Hide() {
	p.animTarget = 0.0
	p.animating = true
}

// IsVisible reports whether any part of the panel is on screen.
func (p *Panel) IsVisible() bool {
	return p.visible && p.animProgress > 0.01
}

// IsMouseInside checks if the given mouse coordinates are within the panel bounds.
func (p *Panel) IsMouseInside(mx, my int) bool {
	if !p.IsVisible() {
		return false
	}
	return mx >= p.bounds.Min.X && mx <= p.bounds.Max.X &&
		my >= p.bounds.Min.Y && my <= p.bounds.Max.Y
}

// RequestSave is the manual-save entry point; it flushes pending changes in
// every autosave mode.
func (p *Panel) RequestSave() {
	if p.autosave.ManualRequest() {
		p.flush()
	}
}

// NotifyPause should be called when the host application pauses.
func (p *Panel) NotifyPause() {
	if p.autosave.Lifecycle(tweak.AppPause) {
		p.flush()
	}
}

// NotifyFocusLost should be called when the host window loses focus.
func (p *Panel) NotifyFocusLost() {
	if p.autosave.Lifecycle(tweak.AppFocusLost) {
		p.flush()
	}
}

// Shutdown flushes pending changes on app teardown.
func (p *Panel) Shutdown() {
	if p.autosave.Lifecycle(tweak.AppDestroy) {
		p.flush()
	}
}

// RefreshNow forces a dirty-diff pass outside the configured cadence.
func (p *Panel) RefreshNow() int {
	return p.refresher.Run()
}

// ExportSnapshot writes the current save-flagged values as a compressed
// snapshot at path.
func (p *Panel) ExportSnapshot(path string) error {
	return persist.ExportSnapshot(path, persist.Snapshot(p.reg), persist.NewCodec(p.opts.Precision))
}

// ImportSnapshot loads a compressed snapshot, applies it to the controls,
// and invalidates their display caches so the next pass repaints them.
func (p *Panel) ImportSnapshot(path string) error {
	records, err := persist.ImportSnapshot(path, persist.NewCodec(p.opts.Precision))
	if err != nil {
		return err
	}
	persist.Apply(p.reg, records)
	for _, c := range p.reg.Controls() {
		p.refresher.Invalidate(c)
	}
	return nil
}

// flush writes the save-flagged dataset through the configured store. The
// pending flag clears only on success; a failure re-arms the policy timers
// so the retry waits out a full delay or interval.
func (p *Panel) flush() {
	now := time.Now()
	records := persist.Snapshot(p.reg)
	if err := p.store.Save(records); err != nil {
		log.Printf("[PANEL] save failed: %v, keeping in-memory values", err)
		p.autosave.FlushFailed(now)
		p.indicator.Flash("Save failed", true, now)
		return
	}
	p.autosave.Flushed(now)
	p.indicator.Flash("Saved", false, now)
}

// Update drives animations, input, the autosave policy, and the refresher.
// It returns true when the panel consumed the mouse input this frame.
func (p *Panel) Update(screenWidth, screenHeight int, deltaTime float64) bool {
	p.screenWidth = screenWidth
	p.screenHeight = screenHeight
	now := time.Now()

	// Keybinds work whether or not the panel is open.
	if bindingJustPressed(p.opts.Keybinds.TogglePanel) {
		if p.IsVisible() {
			p.Hide()
		} else {
			p.Show()
		}
	}
	if bindingJustPressed(p.opts.Keybinds.ManualSave) {
		p.RequestSave()
	}

	// Autosave ticks every frame even when the panel is hidden.
	if p.autosave.Tick(now) {
		p.flush()
	}

	// The refresher also runs while hidden: remote displays stay live.
	if p.refresher.Due(now) {
		p.refresher.Run()
	}

	// Slide animation
	if p.animating {
		if math.Abs(p.animProgress-p.animTarget) > 0.01 {
			diff := p.animTarget - p.animProgress
			p.animProgress += diff * 8.0 * deltaTime
		} else {
			p.animProgress = p.animTarget
			p.animating = false
			if p.animProgress <= 0.01 {
				p.visible = false
			}
		}
	}

	if !p.IsVisible() {
		return false
	}

	p.calculateBounds()
	mx, my := ebiten.CursorPosition()

	if bindingJustPressed(p.opts.Keybinds.NextTab) {
		p.tabBar.Select(p.tabBar.Active() + 1)
	}
	if bindingJustPressed(p.opts.Keybinds.PrevTab) {
		p.tabBar.Select(p.tabBar.Active() - 1)
	}

	// Close button
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if mx >= p.closeButton.Min.X && mx < p.closeButton.Max.X && my >= p.closeButton.Min.Y && my < p.closeButton.Max.Y {
			p.Hide()
			return true
		}
	}

	if p.tabBar.Update(mx, my) {
		return true
	}

	contentY := p.bounds.Min.Y + p.headerHeight()
	contentHeight := p.bounds.Dy() - p.headerHeight()

	handled := false
	rows := p.activeRows()
	currentY := contentY - p.scrollOffset
	var hoveredRow controlRow
	for _, row := range rows {
		if !row.IsVisible() {
			continue
		}
		rowHeight := row.GetMinHeight()
		if currentY+rowHeight > contentY && currentY < contentY+contentHeight {
			if mx >= p.bounds.Min.X && mx < p.bounds.Max.X && my >= contentY && my < contentY+contentHeight {
				if row.Update(mx, my, deltaTime) {
					handled = true
				}
				b := row.Bounds()
				if mx >= b.Min.X && mx < b.Max.X && my >= b.Min.Y && my < b.Max.Y {
					hoveredRow = row
				}
			} else {
				row.Update(-1, -1, deltaTime)
			}
		}
		currentY += rowHeight + 8
	}

	// Right click on a row copies its formatted value.
	if hoveredRow != nil && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		copyText(hoveredRow.ValueText())
		p.indicator.Flash("Copied", false, now)
		handled = true
	}

	// Tooltip follows the hovered row's help text.
	hoveredTip := ""
	if hoveredRow != nil {
		hoveredTip = hoveredRow.Control().Tooltip
	}
	p.tooltip.Update(hoveredTip, deltaTime)

	// Wheel scrolling when no row consumed the input
	if !handled && p.IsMouseInside(mx, my) {
		if _, scrollY := ebiten.Wheel(); scrollY != 0 {
			p.scrollTarget -= scrollY * 60
			p.scrollTarget = math.Max(0, math.Min(float64(p.maxScroll), p.scrollTarget))
		}
	}
	if math.Abs(float64(p.scrollOffset)-p.scrollTarget) > 0.1 {
		diff := p.scrollTarget - float64(p.scrollOffset)
		p.scrollOffset = int(float64(p.scrollOffset) + diff*8.0*deltaTime)
		p.scrollOffset = int(math.Max(0, math.Min(float64(p.maxScroll), float64(p.scrollOffset))))
	}

	// Consume clicks inside the panel so they never reach the scene.
	if p.IsMouseInside(mx, my) {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
			return true
		}
	}

	return handled
}

func (p *Panel) headerHeight() int {
	return 50 + 30 // title strip + tab bar
}

func (p *Panel) activeRows() []controlRow {
	idx := p.tabBar.Active()
	if idx < 0 || idx >= len(p.rowsByTab) {
		return nil
	}
	return p.rowsByTab[idx]
}

func (p *Panel) calculateBounds() {
	// Docked to the right edge, sliding in by animating width.
	animatedWidth := int(float64(p.opts.Width) * p.animProgress)
	p.bounds = image.Rect(p.screenWidth-animatedWidth, 0, p.screenWidth, p.screenHeight)

	buttonSize := 22
	p.closeButton = image.Rect(
		p.bounds.Max.X-buttonSize-12,
		p.bounds.Min.Y+12,
		p.bounds.Max.X-12,
		p.bounds.Min.Y+12+buttonSize,
	)
}

// Draw renders the panel. Call it after the scene so the overlay sits on top.
func (p *Panel) Draw(screen *ebiten.Image) {
	if !p.IsVisible() {
		return
	}

	alpha := p.animProgress
	now := time.Now()

	// Content metrics for scrolling
	contentTotal := 16
	for _, row := range p.activeRows() {
		if row.IsVisible() {
			contentTotal += row.GetMinHeight() + 8
		}
	}
	availableHeight := p.bounds.Dy() - p.headerHeight()
	p.maxScroll = int(math.Max(0, float64(contentTotal-availableHeight)))

	vector.DrawFilledRect(screen, float32(p.bounds.Min.X), float32(p.bounds.Min.Y), float32(p.bounds.Dx()), float32(p.bounds.Dy()), scaleAlpha(p.theme.Background, alpha), false)
	vector.DrawFilledRect(screen, float32(p.bounds.Min.X), float32(p.bounds.Min.Y), 3, float32(p.bounds.Dy()), scaleAlpha(p.theme.Border, alpha), false)

	// Title and close button
	text.Draw(screen, p.title, p.titleFont, p.bounds.Min.X+20, p.bounds.Min.Y+32, scaleAlpha(p.theme.Text, alpha))

	mx, my := ebiten.CursorPosition()
	buttonColor := p.theme.IndicatorBad
	if mx >= p.closeButton.Min.X && mx < p.closeButton.Max.X && my >= p.closeButton.Min.Y && my < p.closeButton.Max.Y {
		buttonColor.R = 255
	}
	vector.DrawFilledRect(screen, float32(p.closeButton.Min.X), float32(p.closeButton.Min.Y), float32(p.closeButton.Dx()), float32(p.closeButton.Dy()), scaleAlpha(buttonColor, alpha), false)
	text.Draw(screen, "×", p.font, p.closeButton.Min.X+7, p.closeButton.Min.Y+15, scaleAlpha(p.theme.Text, alpha))

	// Tab strip under the title
	p.tabBar.Draw(screen, p.bounds.Min.X+10, p.bounds.Min.Y+50, p.bounds.Dx()-20, p.font, alpha)

	// Rows of the active tab
	contentY := p.bounds.Min.Y + p.headerHeight()
	contentHeight := p.bounds.Dy() - p.headerHeight()
	rowWidth := p.bounds.Dx() - 40

	currentY := contentY + 8 - p.scrollOffset
	for _, row := range p.activeRows() {
		if !row.IsVisible() {
			continue
		}
		rowHeight := row.GetMinHeight()
		if currentY+rowHeight > contentY && currentY < contentY+contentHeight {
			row.Draw(screen, p.bounds.Min.X+20, currentY, rowWidth, p.font)
		}
		currentY += rowHeight + 8
	}

	p.drawScrollbar(screen, contentY, contentHeight, alpha)
	p.indicator.Draw(screen, p.closeButton.Min.X-8, p.bounds.Min.Y+12, p.font, now)
	p.tooltip.Draw(screen, p.font)
}

func (p *Panel) drawScrollbar(screen *ebiten.Image, contentY, contentHeight int, alpha float64) {
	if p.maxScroll <= 0 {
		return
	}
	barWidth := 4
	barX := p.bounds.Max.X - barWidth - 3

	visible := float64(contentHeight) / float64(contentHeight+p.maxScroll)
	thumbHeight := int(math.Max(24, float64(contentHeight)*visible))
	travel := contentHeight - thumbHeight
	thumbY := contentY + int(float64(travel)*float64(p.scrollOffset)/float64(p.maxScroll))

	vector.DrawFilledRect(screen, float32(barX), float32(contentY), float32(barWidth), float32(contentHeight), scaleAlpha(p.theme.RowBase, alpha*0.5), false)
	vector.DrawFilledRect(screen, float32(barX), float32(thumbY), float32(barWidth), float32(thumbHeight), scaleAlpha(p.theme.Fill, alpha), false)
}
