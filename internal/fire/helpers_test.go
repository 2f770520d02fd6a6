package fire

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

// recordingSampler wraps a sampler and counts probes per lattice coordinate.
type recordingSampler struct {
	inner    terrain.Sampler
	cellSize float64

	mu     sync.Mutex
	probes map[Coord]int
}

func newRecordingSampler(inner terrain.Sampler, cellSize float64) *recordingSampler {
	return &recordingSampler{inner: inner, cellSize: cellSize, probes: make(map[Coord]int)}
}

func (r *recordingSampler) Sample(p mgl64.Vec3) (terrain.Sample, bool) {
	c := Coord{X: int(math.Round(p.X() / r.cellSize)), Y: int(math.Round(p.Y() / r.cellSize))}
	r.mu.Lock()
	r.probes[c]++
	r.mu.Unlock()
	return r.inner.Sample(p)
}

// recordingTarget sums every delta it receives. It ignites once the total
// reaches igniteAt; a zero igniteAt never ignites.
type recordingTarget struct {
	total      float64
	calls      int
	igniteAt   float64
	multiplier float64
}

func (t *recordingTarget) AddCombustion(delta float64) {
	t.total += delta
	t.calls++
}

func (t *recordingTarget) IsIgnited() bool {
	return t.igniteAt > 0 && t.total >= t.igniteAt
}

func (t *recordingTarget) CombustionRateMultiplier() float64 {
	if t.multiplier == 0 {
		return 1
	}
	return t.multiplier
}

// boundSampler is a flat grass plane where every point with x >= minX is
// bound to target h.
func boundSampler(h terrain.TargetHandle, minX float64) terrain.Sampler {
	flat := terrain.NewFlat(0, terrain.SurfaceGrass)
	return terrain.SamplerFunc(func(p mgl64.Vec3) (terrain.Sample, bool) {
		s, ok := flat.Sample(p)
		if ok && p.X() >= minX {
			s.Target = h
		}
		return s, ok
	})
}

// grassCell is a combustible cell at coordinate c on a flat plane.
func grassCell(c Coord, size float64) *Cell {
	s := terrain.DefaultSettings().Classify(terrain.SurfaceGrass,
		mgl64.Vec3{float64(c.X) * size, float64(c.Y) * size, 0}, terrain.NoTarget)
	return newCell(s, false, 1)
}
