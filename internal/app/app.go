//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"wildfire/internal/core"
	"wildfire/internal/render"
	"wildfire/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the control panel.
const HUDWidth = 260

// maxStepsPerFrame bounds catch-up after a slow frame.
const maxStepsPerFrame = 4

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep
	log     *slog.Logger

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for sim stepping at tps steps per second.
func New(sim core.Sim, scale, tps int, seed int64) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, HUDWidth),
		timer:   core.NewFixedStep(tps),
		log:     slog.Default().With("component", "app"),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.Info("reset", "sim", g.sim.Name(), "seed", seed)
}

// Update handles input and advances the simulation on its own clock.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.timer.SetTPS(g.timer.TPS() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.timer.SetTPS(max(g.timer.TPS()/2, 1))
	}
	g.handleIgnite()

	g.overlay.Update()
	size := g.sim.Size()
	g.hud.Update(size.W * g.scale)

	steps := g.timer.Steps(maxStepsPerFrame)
	if g.paused {
		steps = 0
	}
	if g.tickOnce {
		steps = max(steps, 1)
		g.tickOnce = false
	}
	for i := 0; i < steps; i++ {
		g.sim.Step()
	}
	return nil
}

// handleIgnite starts a fire under a right click, or a left click inside the
// simulation view.
func (g *Game) handleIgnite() {
	igniter, ok := g.sim.(core.Igniter)
	if !ok {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) &&
		!inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.sim.Size()
	x, y := mx/g.scale, my/g.scale
	if x < 0 || y < 0 || x >= size.W || y >= size.H {
		return
	}
	if !igniter.Ignite(x, y) {
		g.log.Debug("cell cannot burn", "x", x, "y", y)
	}
}

// Draw renders the simulation, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	var palette []color.RGBA
	if provider, ok := g.sim.(core.PaletteProvider); ok {
		palette = provider.Palette()
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, g.scale)
	g.overlay.Draw(screen)
	size := g.sim.Size()
	g.hud.Draw(screen, size.W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + HUDWidth, s.H * g.scale
}
