package core

import "image/color"

// Size describes the dimensions of a simulation viewport in cells.
type Size struct {
	W int
	H int
}

// Sim is the contract the viewer and the headless tools drive.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Cells returns one palette index per viewport cell in row-major order.
	Cells() []uint8
}

// PaletteProvider maps the values returned by Sim.Cells to colors.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Igniter starts a fire under a viewport cell.
type Igniter interface {
	Ignite(x, y int) bool
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
