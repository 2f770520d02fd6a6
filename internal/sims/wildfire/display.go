package wildfire

import (
	"image/color"
	"math"

	"wildfire/internal/core"
	"wildfire/internal/fire"
	"wildfire/internal/terrain"
)

const (
	displaySurfaceMask = 0x07
	displayStateShift  = 3
)

// cellState is the fire state shown for a viewport cell.
type cellState uint8

const (
	stateUnburnt cellState = iota
	stateHeating
	stateBurning
	stateBurnt
)

var wildfirePalette = buildWildfirePalette()

// Palette exposes the colors used for rendering the world.
func (w *World) Palette() []color.RGBA {
	return wildfirePalette
}

func buildWildfirePalette() []color.RGBA {
	palette := make([]color.RGBA, 32)
	for i := range palette {
		surface := terrain.Surface(i & displaySurfaceMask)
		state := cellState(i >> displayStateShift)
		palette[i] = toRGBA(paletteColorFor(surface, state))
	}
	return palette
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func paletteColorFor(surface terrain.Surface, state cellState) color.NRGBA {
	base := surfaceColor(surface)
	switch state {
	case stateHeating:
		return blendColors(base, color.NRGBA{R: 230, G: 180, B: 60, A: 255}, 0.45)
	case stateBurning:
		return color.NRGBA{R: 255, G: 110, B: 30, A: 255}
	case stateBurnt:
		return blendColors(base, color.NRGBA{R: 30, G: 26, B: 24, A: 255}, 0.8)
	default:
		return base
	}
}

func surfaceColor(surface terrain.Surface) color.NRGBA {
	switch surface {
	case terrain.SurfaceGrass:
		return color.NRGBA{R: 110, G: 165, B: 70, A: 255}
	case terrain.SurfaceShrub:
		return color.NRGBA{R: 75, G: 125, B: 60, A: 255}
	case terrain.SurfaceForest:
		return color.NRGBA{R: 40, G: 95, B: 50, A: 255}
	case terrain.SurfaceWood:
		return color.NRGBA{R: 130, G: 90, B: 55, A: 255}
	case terrain.SurfaceRock:
		return color.NRGBA{R: 130, G: 130, B: 130, A: 255}
	case terrain.SurfaceWater:
		return color.NRGBA{R: 45, G: 85, B: 150, A: 255}
	default:
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5)
	}
	return color.NRGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}

func encodeDisplayValue(surface terrain.Surface, state cellState) uint8 {
	return uint8(surface)&displaySurfaceMask | uint8(state)<<displayStateShift
}

// rasterizeTerrain samples the top surface and elevation of every viewport
// cell. It runs once per Reset.
func (w *World) rasterizeTerrain() {
	total := w.w * w.h
	w.surface = make([]terrain.Surface, total)
	w.elevation = make([]int16, total)
	w.display = core.NewByteGrid(w.w, w.h)
	w.heat = make([]float32, total)
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			p := w.sim.WorldPoint(w.coordAt(x, y), 0)
			surface, z := w.field.Top(p.X(), p.Y())
			i := y*w.w + x
			w.surface[i] = surface
			w.elevation[i] = int16(math.Round(min(max(z, math.MinInt16), math.MaxInt16)))
		}
	}
}

// rebuildDisplay overlays the materialized fire cells on the terrain.
func (w *World) rebuildDisplay() {
	cells := w.display.Cells()
	for i, s := range w.surface {
		cells[i] = encodeDisplayValue(s, stateUnburnt)
		w.heat[i] = 0
	}
	ox, oy := w.w/2, w.h/2
	w.sim.RangeCells(func(c fire.Coord, cell *fire.Cell) bool {
		x, y := c.X+ox, c.Y+oy
		if !w.display.Contains(x, y) || cell.Obstacle {
			return true
		}
		i := w.display.Index(x, y)
		state := stateUnburnt
		combustion := cell.Combustion()
		switch {
		case cell.Ignited() && w.sim.OnFrontier(c):
			state = stateBurning
		case cell.Ignited():
			state = stateBurnt
		case combustion > 0:
			state = stateHeating
		}
		w.display.Set(x, y, encodeDisplayValue(w.surface[i], state))
		w.heat[i] = float32(min(max(combustion, 0), 1))
		return true
	})
}
