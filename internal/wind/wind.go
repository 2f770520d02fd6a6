// Package wind holds the world wind and notifies listeners when it changes.
package wind

import (
	"math"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the smallest change that counts as a new wind setting.
const Epsilon = 1e-4

// Listener receives the wind direction (a horizontal unit vector) and strength.
type Listener func(dir mgl64.Vec3, strength float64)

// Component is the wind source of a world. The direction is a yaw in degrees
// measured from +X toward +Y.
type Component struct {
	mu        sync.Mutex
	yaw       float64
	strength  float64
	next      int
	listeners map[int]Listener
}

// New returns a component blowing along yaw with the given strength.
func New(yaw, strength float64) *Component {
	return &Component{
		yaw:       normalizeYaw(yaw),
		strength:  math.Max(strength, 0),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a function that removes it. l is not
// called with the current setting; use Notify for that.
func (c *Component) Subscribe(l Listener) (cancel func()) {
	c.mu.Lock()
	id := c.next
	c.next++
	c.listeners[id] = l
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Yaw returns the direction in degrees within [0, 360).
func (c *Component) Yaw() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

// Strength returns the wind strength.
func (c *Component) Strength() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strength
}

// Direction returns the unit vector the wind blows along.
func (c *Component) Direction() mgl64.Vec3 {
	return YawVector(c.Yaw())
}

// SetDirection changes the yaw. Nearly equal orientations are ignored.
func (c *Component) SetDirection(yaw float64) {
	yaw = normalizeYaw(yaw)
	c.mu.Lock()
	d := math.Abs(yaw - c.yaw)
	if math.Min(d, 360-d) < Epsilon {
		c.mu.Unlock()
		return
	}
	c.yaw = yaw
	c.mu.Unlock()
	c.Notify()
}

// SetStrength changes the strength. Negative values are clamped to zero and
// nearly equal values are ignored.
func (c *Component) SetStrength(strength float64) {
	strength = math.Max(strength, 0)
	c.mu.Lock()
	if math.Abs(strength-c.strength) < Epsilon {
		c.mu.Unlock()
		return
	}
	c.strength = strength
	c.mu.Unlock()
	c.Notify()
}

// Notify calls every listener with the current setting.
func (c *Component) Notify() {
	c.mu.Lock()
	dir := YawVector(c.yaw)
	strength := c.strength
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	ls := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		ls = append(ls, c.listeners[id])
	}
	c.mu.Unlock()
	for _, l := range ls {
		l(dir, strength)
	}
}

// YawVector converts a yaw in degrees to a horizontal unit vector.
func YawVector(yaw float64) mgl64.Vec3 {
	r := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Cos(r), math.Sin(r), 0}
}

func normalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}
