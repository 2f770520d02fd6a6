package fire

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

// IgnitionThreshold is the combustion state at which a cell is burning.
const IgnitionThreshold = 1.0

// Cell is the combustion state and static surface parameters of one grid
// coordinate. Only the combustion state and the two target flags change after
// the cell is created.
type Cell struct {
	combustion atomic.Uint64

	IgnitionRate float64
	BurnoutRate  float64
	FireHeight   float64

	Location mgl64.Vec3
	Obstacle bool
	Target   terrain.TargetHandle

	// Written by the authoritative goroutine, read by workers. Workers never
	// query the target itself.
	hasTarget     atomic.Bool
	targetIgnited atomic.Bool
}

// newCell builds a cell from a terrain sample. rateMultiplier scales the
// ignition rate of target-bound cells.
func newCell(s terrain.Sample, bound bool, rateMultiplier float64) *Cell {
	c := &Cell{
		IgnitionRate: s.IgnitionRate,
		BurnoutRate:  s.BurnoutRate,
		FireHeight:   s.FireHeight,
		Location:     s.Location,
		Obstacle:     s.Obstacle,
	}
	if bound {
		c.Target = s.Target
		c.hasTarget.Store(true)
		if rateMultiplier > 0 {
			c.IgnitionRate *= rateMultiplier
		}
	}
	return c
}

// obstacleCell is recorded where sampling found no surface.
func obstacleCell(loc mgl64.Vec3) *Cell {
	return &Cell{Location: loc, Obstacle: true}
}

// Combustion returns the current combustion state.
func (c *Cell) Combustion() float64 {
	return math.Float64frombits(c.combustion.Load())
}

// addCombustion atomically adds delta and returns the new state.
func (c *Cell) addCombustion(delta float64) float64 {
	for {
		old := c.combustion.Load()
		next := math.Float64frombits(old) + delta
		if c.combustion.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Ignite raises the combustion state to the ignition threshold. It never
// lowers a state that is already higher.
func (c *Cell) Ignite() {
	for {
		old := c.combustion.Load()
		if math.Float64frombits(old) >= IgnitionThreshold {
			return
		}
		if c.combustion.CompareAndSwap(old, math.Float64bits(IgnitionThreshold)) {
			return
		}
	}
}

// HasTarget reports whether the cell is bound to an external target.
func (c *Cell) HasTarget() bool { return c.hasTarget.Load() }

// TargetIgnited reports the last ignition state observed for the bound target.
func (c *Cell) TargetIgnited() bool { return c.targetIgnited.Load() }

// Ignited reports whether the cell is burning. A target-bound cell also needs
// its target to report itself ignited.
func (c *Cell) Ignited() bool {
	if c.Combustion() < IgnitionThreshold {
		return false
	}
	return !c.hasTarget.Load() || c.targetIgnited.Load()
}
