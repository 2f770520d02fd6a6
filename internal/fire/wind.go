package fire

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WindBuckets is the number of quantized wind directions.
const WindBuckets = 8

var (
	referenceForward = mgl64.Vec2{1, 0}
	referenceRight   = mgl64.Vec2{0, 1}
)

// windNeighbors maps each wind bucket to the three downwind offsets the fire
// spreads through while wind is active.
var windNeighbors = [WindBuckets][3]Coord{
	{{1, 0}, {1, 1}, {1, -1}},
	{{1, 1}, {1, 0}, {0, 1}},
	{{0, 1}, {-1, 1}, {1, 1}},
	{{-1, 1}, {0, 1}, {-1, 0}},
	{{-1, 0}, {-1, -1}, {-1, 1}},
	{{-1, -1}, {-1, 0}, {0, -1}},
	{{0, -1}, {1, -1}, {-1, -1}},
	{{1, -1}, {0, -1}, {1, 0}},
}

// Wind is a snapshot of the wind acting on a simulation.
type Wind struct {
	Direction mgl64.Vec3
	Magnitude float64
	bucket    int
}

// NewWind normalizes dir and precomputes its bucket.
func NewWind(dir mgl64.Vec3, magnitude float64) Wind {
	if dir.Len() > 1e-9 {
		dir = dir.Normalize()
	} else {
		dir = mgl64.Vec3{}
	}
	if magnitude < 0 {
		magnitude = 0
	}
	return Wind{Direction: dir, Magnitude: magnitude, bucket: QuantizeWind(dir)}
}

// Bucket returns the quantized direction in [0, WindBuckets).
func (w Wind) Bucket() int { return w.bucket }

// Active reports whether the wind is strong enough to bias spread.
func (w Wind) Active(threshold float64) bool {
	return w.Magnitude >= threshold && w.Direction.Len() > 0
}

// Directions returns the neighbor offsets fire spreads through: all eight
// when the wind is calm, the bucket's downwind subset otherwise.
func (w Wind) Directions(threshold float64) []Coord {
	if !w.Active(threshold) {
		return radialDirections[:]
	}
	return windNeighbors[w.bucket][:]
}

// Effect returns the spread multiplier from a burning cell at from toward a
// neighbor at to. Upwind spread is slowed down to floor but never stopped.
func (w Wind) Effect(from, to mgl64.Vec3, threshold, floor float64) float64 {
	if !w.Active(threshold) {
		return floor
	}
	diff := to.Sub(from)
	if diff.Len() < 1e-9 {
		return floor
	}
	return math.Max(floor, w.Magnitude*diff.Normalize().Dot(w.Direction))
}

// QuantizeWind maps a wind direction onto one of the WindBuckets buckets by
// its signed horizontal angle from +X, with +Y as positive.
func QuantizeWind(dir mgl64.Vec3) int {
	h := mgl64.Vec2{dir.X(), dir.Y()}
	if h.Len() < 1e-9 {
		return 0
	}
	h = h.Normalize()
	angle := math.Acos(mgl64.Clamp(h.Dot(referenceForward), -1, 1))
	if h.Dot(referenceRight) < 0 {
		angle = -angle
	}
	b := int(math.Round(angle / (2 * math.Pi) * WindBuckets))
	return (b%WindBuckets + WindBuckets) % WindBuckets
}
