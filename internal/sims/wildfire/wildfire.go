// Package wildfire drives a fire simulation over procedural terrain and
// rasterizes it for the viewer.
package wildfire

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/combustible"
	"wildfire/internal/core"
	"wildfire/internal/fire"
	"wildfire/internal/terrain"
	"wildfire/internal/wind"
	rng "wildfire/pkg/core"
)

// World is a viewport onto a fire burning across a terrain.Field. Pixel
// (x, y) shows fire coordinate (x-W/2, y-H/2).
type World struct {
	cfg Config
	w   int
	h   int
	log *slog.Logger

	field   *terrain.Field
	targets *fire.Targets
	fires   *fire.Manager
	sim     *fire.Simulation
	wind    *wind.Component
	unsub   func()
	actors  []*combustible.Actor

	surface   []terrain.Surface
	elevation []int16
	display   *core.ByteGrid
	heat      []float32
}

// New returns a world with the default configuration and the given size.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world built from cfg and reset with cfg.Seed.
func NewWithConfig(cfg Config) *World {
	if cfg.Width <= 0 {
		cfg.Width = DefaultConfig().Width
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultConfig().Height
	}
	logger := cfg.Fire.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{
		cfg: cfg,
		w:   cfg.Width,
		h:   cfg.Height,
		log: logger.With("component", "wildfire"),
	}
	w.Reset(cfg.Seed)
	return w
}

// Name returns the registry name.
func (w *World) Name() string { return "wildfire" }

// Size returns the viewport size in cells.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells returns the palette index of every viewport cell.
func (w *World) Cells() []uint8 { return w.display.Cells() }

// Fires returns the fire manager of the world.
func (w *World) Fires() *fire.Manager { return w.fires }

// Simulation returns the fire simulation of the world.
func (w *World) Simulation() *fire.Simulation { return w.sim }

// Wind returns the world wind.
func (w *World) Wind() *wind.Component { return w.wind }

// Field returns the terrain.
func (w *World) Field() *terrain.Field { return w.field }

// Actors returns the combustible props.
func (w *World) Actors() []*combustible.Actor { return w.actors }

// Reset rebuilds the terrain, props and fire from seed.
func (w *World) Reset(seed int64) {
	if w.unsub != nil {
		w.unsub()
	}
	if w.sim != nil {
		w.sim.Settle()
	}
	w.cfg.Seed = seed
	tcfg := w.cfg.Terrain
	tcfg.Seed = seed
	w.field = terrain.NewField(tcfg)
	w.targets = fire.NewTargets()
	w.placeProps(rng.NewRNG(seed ^ 0x5eed))

	fcfg := w.cfg.Fire
	fcfg.Anchor = mgl64.Vec3{0, 0, w.field.HeightAt(0, 0)}
	if fcfg.Logger == nil {
		fcfg.Logger = w.log
	}
	w.sim = fire.New(fcfg, w.field, w.targets)
	w.fires = fire.NewManager()
	w.fires.Register(w.sim)

	w.wind = wind.New(w.cfg.WindYaw, w.cfg.WindStrength)
	w.unsub = w.wind.Subscribe(w.sim.OnWindChanged)
	w.wind.Notify()

	w.rasterizeTerrain()
	if w.cfg.IgniteCenter {
		if c, ok := w.findCombustible(w.w/2, w.h/2, max(w.w, w.h)/2); ok {
			w.Ignite(c.X, c.Y)
		}
	}
	w.rebuildDisplay()
}

// Step advances the fire by the configured time step.
func (w *World) Step() {
	w.fires.Tick(w.cfg.DT)
	w.rebuildDisplay()
}

// Settle waits for a running dispatch and refreshes the display.
func (w *World) Settle() {
	w.sim.Settle()
	w.rebuildDisplay()
}

// Ignite starts a fire under viewport cell (x, y).
func (w *World) Ignite(x, y int) bool {
	if !w.display.Contains(x, y) {
		return false
	}
	p := w.pointAt(x, y)
	if err := w.fires.StartFire(p); err != nil {
		w.log.Info("ignite rejected", "x", x, "y", y, "err", err)
		return false
	}
	w.rebuildDisplay()
	return true
}

// SetWind updates the wind direction and strength.
func (w *World) SetWind(yaw, strength float64) {
	w.cfg.WindYaw = yaw
	w.cfg.WindStrength = strength
	w.wind.SetDirection(yaw)
	w.wind.SetStrength(strength)
}

// ElevationField returns the terrain height of every viewport cell.
func (w *World) ElevationField() []int16 { return w.elevation }

// HeatMask returns the combustion state of every viewport cell clamped to
// [0, 1].
func (w *World) HeatMask() []float32 { return w.heat }

// WindVectorAt returns the wind at viewport position (x, y). The world wind is
// uniform; the vector is scaled so the configured activation threshold maps
// to unit length.
func (w *World) WindVectorAt(x, y float64) (float64, float64) {
	dir := w.wind.Direction()
	strength := w.wind.Strength()
	ref := w.sim.Config().WindThreshold
	if ref <= 0 {
		ref = 1
	}
	s := math.Min(strength/ref, 1.1)
	return dir.X() * s, dir.Y() * s
}

// coordAt maps a viewport cell to its fire coordinate.
func (w *World) coordAt(x, y int) fire.Coord {
	return fire.Coord{X: x - w.w/2, Y: y - w.h/2}
}

// pointAt returns the top surface point under viewport cell (x, y).
func (w *World) pointAt(x, y int) mgl64.Vec3 {
	p := w.sim.WorldPoint(w.coordAt(x, y), 0)
	_, z := w.field.Top(p.X(), p.Y())
	return mgl64.Vec3{p.X(), p.Y(), z}
}

func (w *World) placeProps(r *rng.RNG) {
	w.actors = w.actors[:0]
	size := w.cfg.Fire.CellSize
	if size <= 0 {
		size = fire.DefaultConfig().CellSize
	}
	halfW := float64(w.w) * size / 2
	halfH := float64(w.h) * size / 2
	for i := 0; i < w.cfg.Props; i++ {
		x := r.Range(-halfW, halfW)
		y := r.Range(-halfH, halfH)
		ground := w.field.HeightAt(x, y)
		if w.field.SurfaceAt(x, y, ground) == terrain.SurfaceWater {
			continue
		}
		actor := combustible.NewActor("prop", mgl64.Vec3{x, y, ground})
		h := actor.Register(w.targets)
		w.field.AddProp(terrain.Prop{
			Center: actor.Position,
			Radius: size * r.Range(1.5, 3),
			Height: r.Range(10, 30),
			Target: h,
		})
		w.actors = append(w.actors, actor)
	}
}

// findCombustible searches outward from (cx, cy) for a viewport cell whose
// top surface can burn.
func (w *World) findCombustible(cx, cy, radius int) (fire.Coord, bool) {
	settings := w.field.Config().Settings
	for r := 0; r <= radius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				x, y := cx+dx, cy+dy
				if !w.display.Contains(x, y) {
					continue
				}
				if !settings.IsIncombustible(w.surface[w.display.Index(x, y)]) {
					return fire.Coord{X: x, Y: y}, true
				}
			}
		}
	}
	return fire.Coord{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func init() {
	core.Register("wildfire", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
