// Package terrain provides the surface samplers the fire engine consults when
// it materializes cells at the edge of a spreading fire.
package terrain

import "github.com/go-gl/mathgl/mgl64"

// TargetHandle identifies an external combustible object bound to a surface.
// The zero handle means no target.
type TargetHandle uint64

// NoTarget is the zero TargetHandle.
const NoTarget TargetHandle = 0

// Sample is the classification of the surface found under a probe point.
type Sample struct {
	Location mgl64.Vec3
	Surface  Surface
	Obstacle bool

	IgnitionRate float64
	BurnoutRate  float64
	FireHeight   float64

	Target TargetHandle
}

// Sampler finds the surface under a world point. Implementations must be safe
// for concurrent use; the fire engine calls Sample from worker goroutines.
type Sampler interface {
	Sample(p mgl64.Vec3) (Sample, bool)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(p mgl64.Vec3) (Sample, bool)

// Sample calls f(p).
func (f SamplerFunc) Sample(p mgl64.Vec3) (Sample, bool) { return f(p) }

// Column bounds the vertical probe around a sample point: the surface must lie
// within [p.Z-Down, p.Z+Up] to be found.
type Column struct {
	Up   float64
	Down float64
}

// DefaultColumn mirrors the default fire strength and downward threshold.
func DefaultColumn() Column {
	return Column{Up: 50, Down: 20}
}

// Contains reports whether height z is reachable from a probe at p.
func (c Column) Contains(p mgl64.Vec3, z float64) bool {
	return z <= p.Z()+c.Up && z >= p.Z()-c.Down
}

// Flat is an infinite plane of a single surface.
type Flat struct {
	Height   float64
	Surface  Surface
	Column   Column
	Settings Settings
}

// NewFlat returns a flat sampler at the given height using default settings.
func NewFlat(height float64, surface Surface) *Flat {
	return &Flat{
		Height:   height,
		Surface:  surface,
		Column:   DefaultColumn(),
		Settings: DefaultSettings(),
	}
}

// Sample returns the plane's classification when the plane is inside the
// probe column.
func (f *Flat) Sample(p mgl64.Vec3) (Sample, bool) {
	if !f.Column.Contains(p, f.Height) {
		return Sample{}, false
	}
	loc := mgl64.Vec3{p.X(), p.Y(), f.Height}
	return f.Settings.Classify(f.Surface, loc, NoTarget), true
}
