// Package combustible provides objects that burn together with the fire
// cells bound to them.
package combustible

import (
	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/fire"
	"wildfire/internal/terrain"
)

// DefaultRate is the combustion rate multiplier of a new actor.
const DefaultRate = 0.25

// Starter starts a fire at a world position.
type Starter interface {
	StartFire(p mgl64.Vec3) error
}

// Actor is a combustible object. Its combustion state is clamped to
// [0, MaxCombustion] and it is ignited once the state reaches the maximum.
//
// Actor is not safe for concurrent use; the fire engine only calls
// AddCombustion and IsIgnited from its authoritative goroutine.
type Actor struct {
	Name     string
	Position mgl64.Vec3

	MaxCombustion float64
	// Rate multiplies the ignition rate of every cell bound to the actor.
	Rate float64

	state  float64
	handle terrain.TargetHandle
}

// NewActor returns an unburnt actor at pos.
func NewActor(name string, pos mgl64.Vec3) *Actor {
	return &Actor{
		Name:          name,
		Position:      pos,
		MaxCombustion: 1,
		Rate:          DefaultRate,
	}
}

// Register binds the actor to targets and returns its handle. Samplers hand
// the handle out for every surface that belongs to the actor.
func (a *Actor) Register(targets *fire.Targets) terrain.TargetHandle {
	a.handle = targets.Register(a)
	return a.handle
}

// Handle returns the handle assigned by Register.
func (a *Actor) Handle() terrain.TargetHandle { return a.handle }

// AddCombustion adds delta to the combustion state.
func (a *Actor) AddCombustion(delta float64) {
	a.state = min(max(a.state+delta, 0), a.MaxCombustion)
}

// Combustion returns the current combustion state.
func (a *Actor) Combustion() float64 { return a.state }

// Level returns the combustion state as a fraction of the maximum.
func (a *Actor) Level() float64 {
	if a.MaxCombustion <= 0 {
		return 1
	}
	return a.state / a.MaxCombustion
}

// IsIgnited reports whether the actor is burning.
func (a *Actor) IsIgnited() bool { return a.state >= a.MaxCombustion }

// CombustionRateMultiplier returns Rate.
func (a *Actor) CombustionRateMultiplier() float64 { return a.Rate }

// StartFire sets the actor alight and starts a fire at its position.
func (a *Actor) StartFire(s Starter) error {
	a.AddCombustion(a.MaxCombustion)
	if s == nil {
		return nil
	}
	return s.StartFire(a.Position)
}

var _ fire.Target = (*Actor)(nil)
