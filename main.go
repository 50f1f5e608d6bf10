package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"tweakpanel/api"
	"tweakpanel/panel"
	"tweakpanel/storage"
	"tweakpanel/tweak"
	"tweakpanel/typedef"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// scene is the demo playground: a particle fountain whose parameters are
// all bound to panel controls.
type scene struct {
	particles []particle

	count    float64
	speed    float64
	size     float64
	gravity  typedef.Value // vec2
	spread   float64
	paused   bool
	bgColor  typedef.Value // color
	maxCount float64
	spawnAcc float64
}

type particle struct {
	x, y   float64
	vx, vy float64
	life   float64
}

func newScene() *scene {
	return &scene{
		count:    400,
		speed:    180,
		size:     3,
		gravity:  typedef.Vec2(0, 220),
		spread:   0.9,
		maxCount: 2000,
		bgColor:  typedef.Color(0.06, 0.07, 0.09, 1),
	}
}

func (s *scene) update(dt float64) {
	if s.paused {
		return
	}

	// Spawn to keep the population near the target count.
	s.spawnAcc += s.count * dt
	for s.spawnAcc >= 1 && float64(len(s.particles)) < s.count {
		s.spawnAcc--
		angle := -math.Pi/2 + (rand.Float64()-0.5)*s.spread
		v := s.speed * (0.6 + 0.4*rand.Float64())
		s.particles = append(s.particles, particle{
			x:    screenWidth / 2,
			y:    screenHeight * 0.8,
			vx:   math.Cos(angle) * v,
			vy:   math.Sin(angle) * v,
			life: 2 + rand.Float64()*2,
		})
	}

	gx, gy := s.gravity.Vec[0], s.gravity.Vec[1]
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.vx += gx * dt
		p.vy += gy * dt
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.life -= dt
		if p.life > 0 && p.y < screenHeight+50 {
			alive = append(alive, p)
		}
	}
	s.particles = alive
}

func (s *scene) draw(screen *ebiten.Image) {
	bg := s.bgColor.Vec
	screen.Fill(color.RGBA{
		R: uint8(bg[0] * 255),
		G: uint8(bg[1] * 255),
		B: uint8(bg[2] * 255),
		A: 255,
	})

	for _, p := range s.particles {
		a := p.life / 4
		if a > 1 {
			a = 1
		}
		c := color.RGBA{R: 255, G: uint8(140 + 80*a), B: 60, A: uint8(200 * a)}
		vector.DrawFilledCircle(screen, float32(p.x), float32(p.y), float32(s.size), c, true)
	}
}

// statsSampler caches system metrics so the info getters stay cheap even
// when polled every frame.
type statsSampler struct {
	lastSample time.Time
	cpuPercent float64
	memUsedMB  float64
	rssMB      float64
	proc       *process.Process
}

func newStatsSampler() *statsSampler {
	s := &statsSampler{}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = p
	}
	return s
}

func (s *statsSampler) sample() {
	if time.Since(s.lastSample) < 500*time.Millisecond {
		return
	}
	s.lastSample = time.Now()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.cpuPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.memUsedMB = float64(vm.Used) / (1024 * 1024)
	}
	if s.proc != nil {
		if info, err := s.proc.MemoryInfo(); err == nil {
			s.rssMB = float64(info.RSS) / (1024 * 1024)
		}
	}
}

type game struct {
	scene    *scene
	stats    *statsSampler
	panel    *panel.Panel
	remote   *api.Server
	lastNow  time.Time
	hadFocus bool
}

func (g *game) Update() error {
	now := time.Now()
	dt := 1.0 / 60.0
	if !g.lastNow.IsZero() {
		if d := now.Sub(g.lastNow).Seconds(); d > 0 && d < 0.25 {
			dt = d
		}
	}
	g.lastNow = now

	// Losing window focus flushes pending changes in every autosave mode.
	focused := ebiten.IsFocused()
	if g.hadFocus && !focused {
		g.panel.NotifyFocusLost()
	}
	g.hadFocus = focused

	g.stats.sample()
	if g.remote != nil {
		g.remote.ApplyPending()
	}
	g.panel.Update(screenWidth, screenHeight, dt)
	g.scene.update(dt)

	if ebiten.IsWindowBeingClosed() {
		g.panel.Shutdown()
		if g.remote != nil {
			g.remote.Stop()
		}
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.draw(screen)
	g.panel.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// buildRegistry wires every demo parameter into the control catalog.
func buildRegistry(s *scene, stats *statsSampler) *tweak.Registry {
	reg := tweak.NewRegistry()

	gfx := reg.Tab("Graphics")
	gfx.Slider("Particle Count",
		func() float64 { return s.count },
		func(v float64) { s.count = v },
		0, 2000).
		WithBounds(func() (float64, float64) { return 0, s.maxCount }).
		WithStep(10).
		WithFormat("%.0f").
		WithSave("gfx.particles").
		WithTooltip("Target number of live particles")
	gfx.Slider("Max Particles",
		func() float64 { return s.maxCount },
		func(v float64) { s.maxCount = v },
		100, 10000).
		WithStep(100).
		WithFormat("%.0f").
		WithTooltip("Upper bound for the particle count slider")
	gfx.Slider("Particle Size",
		func() float64 { return s.size },
		func(v float64) { s.size = v },
		0.5, 12).
		WithSave().
		WithTooltip("Particle radius in pixels")
	gfx.Vector("Background",
		func() typedef.Value { return s.bgColor },
		func(v typedef.Value) { s.bgColor = v }).
		WithSave("gfx.bg").
		WithTooltip("Clear color, RGBA 0-1")

	sim := reg.Tab("Simulation")
	sim.Slider("Emit Speed",
		func() float64 { return s.speed },
		func(v float64) { s.speed = v },
		10, 600).
		WithSave().
		WithTooltip("Initial particle velocity")
	sim.Slider("Spread",
		func() float64 { return s.spread },
		func(v float64) { s.spread = v },
		0, math.Pi).
		WithFormat("%.3f").
		WithSave()
	sim.Vector("Gravity",
		func() typedef.Value { return s.gravity },
		func(v typedef.Value) { s.gravity = v }).
		WithSave("sim.gravity").
		WithTooltip("Acceleration applied each frame")
	sim.Toggle("Paused",
		func() bool { return s.paused },
		func(v bool) { s.paused = v })

	st := reg.Tab("Stats")
	st.Info("FPS", func() typedef.Value {
		return typedef.Float(ebiten.ActualFPS())
	}).WithFormat("%.1f")
	st.Info("TPS", func() typedef.Value {
		return typedef.Float(ebiten.ActualTPS())
	}).WithFormat("%.1f")
	st.Info("Particles", func() typedef.Value {
		return typedef.Float(float64(len(s.particles)))
	}).WithFormat("%.0f")
	st.Info("CPU %", func() typedef.Value {
		return typedef.Float(stats.cpuPercent)
	}).WithFormat("%.1f").WithTooltip("System-wide CPU load")
	st.Info("Mem Used MB", func() typedef.Value {
		return typedef.Float(stats.memUsedMB)
	}).WithFormat("%.0f")
	st.Info("RSS MB", func() typedef.Value {
		return typedef.Float(stats.rssMB)
	}).WithFormat("%.1f").WithTooltip("Resident memory of this process")
	st.Info("Goroutines", func() typedef.Value {
		return typedef.Float(float64(runtime.NumGoroutine()))
	}).WithFormat("%.0f")

	return reg
}

func main() {
	var optionsPath string
	var remoteAddr string
	var showOnStart bool
	flag.StringVar(&optionsPath, "options", "", "Options yaml file (default: options.yaml in the data dir)")
	flag.StringVar(&remoteAddr, "addr", "", "Remote inspection listen address, overrides options")
	flag.BoolVar(&showOnStart, "show", false, "Open the panel on launch")
	flag.Parse()

	if optionsPath == "" {
		optionsPath = storage.DataFile("options.yaml")
	}
	opts, err := panel.LoadOptions(optionsPath)
	if err != nil {
		log.Printf("[MAIN] %v, using defaults", err)
	}
	if remoteAddr != "" {
		opts.RemoteAddr = remoteAddr
	}
	if showOnStart {
		opts.ShowOnStart = true
	}

	s := newScene()
	stats := newStatsSampler()
	reg := buildRegistry(s, stats)

	p, err := panel.New(reg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "panel: %v\n", err)
		os.Exit(1)
	}

	var remote *api.Server
	if opts.RemoteAddr != "" {
		remote = api.NewServer(opts.RemoteAddr, reg)
		remote.WatchAll(p.Refresher())
		remote.Start()
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Tweak Panel Demo")
	ebiten.SetWindowClosingHandled(true)

	g := &game{scene: s, stats: stats, panel: p, remote: remote}
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Printf("[MAIN] %v", err)
		p.Shutdown()
		os.Exit(1)
	}
}
