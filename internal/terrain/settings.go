package terrain

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Surface enumerates the physical surface kinds a probe can hit.
type Surface uint8

const (
	SurfaceNone Surface = iota
	SurfaceGrass
	SurfaceShrub
	SurfaceForest
	SurfaceWood
	SurfaceRock
	SurfaceWater
)

func (s Surface) String() string {
	switch s {
	case SurfaceGrass:
		return "grass"
	case SurfaceShrub:
		return "shrub"
	case SurfaceForest:
		return "forest"
	case SurfaceWood:
		return "wood"
	case SurfaceRock:
		return "rock"
	case SurfaceWater:
		return "water"
	default:
		return "none"
	}
}

// CombustionParams describes how a surface burns.
type CombustionParams struct {
	// IgnitionRate scales how fast a cell accumulates combustion.
	IgnitionRate float64
	// BurningStrength is the flame height in world units; it bounds how far
	// uphill the fire can reach from a cell on this surface.
	BurningStrength float64
	// BurnoutRate is how slowly the fire goes out.
	BurnoutRate float64
}

// Settings maps surfaces to their combustion parameters.
type Settings struct {
	Params        map[Surface]CombustionParams
	Incombustible []Surface
}

// Cell defaults used when a surface has no explicit parameters.
const (
	defaultIgnitionRate = 1.0
	defaultBurnoutRate  = 0.005
	defaultFireHeight   = 100.0
)

// DefaultSettings returns the stock surface table.
func DefaultSettings() Settings {
	return Settings{
		Params: map[Surface]CombustionParams{
			SurfaceGrass:  {IgnitionRate: 0.6, BurningStrength: 60, BurnoutRate: 0.03},
			SurfaceShrub:  {IgnitionRate: 0.4, BurningStrength: 100, BurnoutRate: 0.015},
			SurfaceForest: {IgnitionRate: 0.25, BurningStrength: 180, BurnoutRate: 0.008},
			SurfaceWood:   {IgnitionRate: 0.4, BurningStrength: 100, BurnoutRate: 0.015},
		},
		Incombustible: []Surface{SurfaceRock, SurfaceWater},
	}
}

// IsIncombustible reports whether s can never ignite.
func (s Settings) IsIncombustible(surface Surface) bool {
	return surface == SurfaceNone || slices.Contains(s.Incombustible, surface)
}

// Classify builds a Sample for a hit on surface at loc.
func (s Settings) Classify(surface Surface, loc mgl64.Vec3, target TargetHandle) Sample {
	out := Sample{
		Location:     loc,
		Surface:      surface,
		IgnitionRate: defaultIgnitionRate,
		BurnoutRate:  defaultBurnoutRate,
		FireHeight:   defaultFireHeight,
		Target:       target,
	}
	if s.IsIncombustible(surface) {
		out.Obstacle = true
		out.IgnitionRate = 0
		out.BurnoutRate = 0
		out.FireHeight = 0
		return out
	}
	if p, ok := s.Params[surface]; ok {
		out.IgnitionRate = p.IgnitionRate
		out.BurnoutRate = p.BurnoutRate
		out.FireHeight = p.BurningStrength
	}
	return out
}
