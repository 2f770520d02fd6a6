package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/pkg/core"
)

const latticeSize = 64

// FieldConfig controls the procedural heightfield.
type FieldConfig struct {
	Seed int64

	// Scale is the world distance between noise lattice points.
	Scale      float64
	Amplitude  float64
	BaseHeight float64
	WaterLevel float64
	// RockThreshold is the cover noise value above which ground is bare rock.
	RockThreshold float64

	Column   Column
	Settings Settings
}

// DefaultFieldConfig returns rolling hills with scattered rock outcrops.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Seed:          1337,
		Scale:         400,
		Amplitude:     120,
		BaseHeight:    0,
		WaterLevel:    -90,
		RockThreshold: 0.82,
		Column:        DefaultColumn(),
		Settings:      DefaultSettings(),
	}
}

// Prop is a combustible object standing on the terrain, bound to an external
// target.
type Prop struct {
	Center mgl64.Vec3
	Radius float64
	Height float64
	Target TargetHandle
}

// Field samples a seeded value-noise heightfield. The lattices are written
// once in NewField; Sample only reads them and is safe for concurrent use as
// long as AddProp is not called concurrently.
type Field struct {
	cfg    FieldConfig
	height []float64
	cover  []float64
	props  []Prop
}

// NewField builds the noise lattices for cfg.
func NewField(cfg FieldConfig) *Field {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	rng := core.NewRNG(cfg.Seed)
	f := &Field{
		cfg:    cfg,
		height: make([]float64, latticeSize*latticeSize),
		cover:  make([]float64, latticeSize*latticeSize),
	}
	core.FillUnit(rng.Source(), f.height)
	core.FillUnit(rng.Source(), f.cover)
	return f
}

// Config returns the field configuration.
func (f *Field) Config() FieldConfig { return f.cfg }

// AddProp places a prop. Call it before the field is shared with a running
// simulation.
func (f *Field) AddProp(p Prop) {
	f.props = append(f.props, p)
}

// Props returns the placed props.
func (f *Field) Props() []Prop { return f.props }

// HeightAt returns the ground elevation at (x, y).
func (f *Field) HeightAt(x, y float64) float64 {
	sx, sy := x/f.cfg.Scale, y/f.cfg.Scale
	n := noise2(f.height, sx, sy) + 0.5*noise2(f.height, 2*sx+17.3, 2*sy+5.1)
	n /= 1.5
	return f.cfg.BaseHeight + (n-0.5)*2*f.cfg.Amplitude
}

// SurfaceAt classifies the ground at (x, y) whose elevation is z.
func (f *Field) SurfaceAt(x, y, z float64) Surface {
	if z < f.cfg.WaterLevel {
		return SurfaceWater
	}
	c := noise2(f.cover, 1.7*x/f.cfg.Scale, 1.7*y/f.cfg.Scale)
	switch {
	case c > f.cfg.RockThreshold:
		return SurfaceRock
	case c < 0.35:
		return SurfaceGrass
	case c < 0.6:
		return SurfaceShrub
	default:
		return SurfaceForest
	}
}

// Top returns the topmost surface at (x, y) and its elevation, ignoring the
// probe column.
func (f *Field) Top(x, y float64) (Surface, float64) {
	for _, prop := range f.props {
		dx, dy := x-prop.Center.X(), y-prop.Center.Y()
		if dx*dx+dy*dy <= prop.Radius*prop.Radius {
			return SurfaceWood, f.HeightAt(prop.Center.X(), prop.Center.Y()) + prop.Height
		}
	}
	z := f.HeightAt(x, y)
	surface := f.SurfaceAt(x, y, z)
	if surface == SurfaceWater {
		z = f.cfg.WaterLevel
	}
	return surface, z
}

// Sample probes the column at p. Props are hit before the ground below them.
func (f *Field) Sample(p mgl64.Vec3) (Sample, bool) {
	x, y := p.X(), p.Y()
	for _, prop := range f.props {
		dx, dy := x-prop.Center.X(), y-prop.Center.Y()
		if dx*dx+dy*dy > prop.Radius*prop.Radius {
			continue
		}
		top := f.HeightAt(prop.Center.X(), prop.Center.Y()) + prop.Height
		if f.cfg.Column.Contains(p, top) {
			return f.cfg.Settings.Classify(SurfaceWood, mgl64.Vec3{x, y, top}, prop.Target), true
		}
	}

	z := f.HeightAt(x, y)
	surface := f.SurfaceAt(x, y, z)
	if surface == SurfaceWater {
		z = f.cfg.WaterLevel
	}
	if !f.cfg.Column.Contains(p, z) {
		return Sample{}, false
	}
	return f.cfg.Settings.Classify(surface, mgl64.Vec3{x, y, z}, NoTarget), true
}

func noise2(lattice []float64, x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	tx, ty := smoothstep(x-x0), smoothstep(y-y0)
	ix, iy := int(x0), int(y0)
	v00 := latticeAt(lattice, ix, iy)
	v10 := latticeAt(lattice, ix+1, iy)
	v01 := latticeAt(lattice, ix, iy+1)
	v11 := latticeAt(lattice, ix+1, iy+1)
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

func latticeAt(lattice []float64, x, y int) float64 {
	x = (x%latticeSize + latticeSize) % latticeSize
	y = (y%latticeSize + latticeSize) % latticeSize
	return lattice[y*latticeSize+x]
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
