package fire

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

// materializeJob is one unknown coordinate to sample, with the elevation the
// probe starts from.
type materializeJob struct {
	coord Coord
	baseZ float64
}

// materializer turns unknown coordinates into cells by sampling the terrain.
type materializer struct {
	store    *Store
	sampler  terrain.Sampler
	targets  *Targets
	anchor   mgl64.Vec3
	cellSize float64
}

// worldPoint returns the probe point for c at elevation z.
func (m *materializer) worldPoint(c Coord, z float64) mgl64.Vec3 {
	return mgl64.Vec3{
		m.anchor.X() + float64(c.X)*m.cellSize,
		m.anchor.Y() + float64(c.Y)*m.cellSize,
		z,
	}
}

// coordAt returns the lattice coordinate nearest to p.
func (m *materializer) coordAt(p mgl64.Vec3) Coord {
	rel := p.Sub(m.anchor)
	return Coord{
		X: int(math.Round(rel.X() / m.cellSize)),
		Y: int(math.Round(rel.Y() / m.cellSize)),
	}
}

// jobs lists every unknown neighbor of the expanded cells plus the pending
// coordinates reported by the spread pass, each exactly once.
func (m *materializer) jobs(expand []Coord, pending map[Coord]float64) []materializeJob {
	seen := make(map[Coord]struct{})
	var out []materializeJob
	for _, c := range expand {
		parent, ok := m.store.Get(c)
		if !ok {
			continue
		}
		for _, n := range c.Neighbors() {
			if m.store.Contains(n) {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, materializeJob{coord: n, baseZ: parent.Location.Z()})
		}
	}
	rest := make([]Coord, 0, len(pending))
	for c := range pending {
		if _, dup := seen[c]; dup || m.store.Contains(c) {
			continue
		}
		rest = append(rest, c)
	}
	sort.Slice(rest, func(i, j int) bool { return lessCoord(rest[i], rest[j]) })
	for _, c := range rest {
		seen[c] = struct{}{}
		out = append(out, materializeJob{coord: c, baseZ: pending[c]})
	}
	return out
}

// build samples the terrain for one job. It only reads shared state.
func (m *materializer) build(job materializeJob) *Cell {
	p := m.worldPoint(job.coord, job.baseZ)
	s, ok := m.sampler.Sample(p)
	if !ok {
		return obstacleCell(p)
	}
	return m.fromSample(s)
}

func (m *materializer) fromSample(s terrain.Sample) *Cell {
	if s.Target == terrain.NoTarget {
		return newCell(s, false, 1)
	}
	t, ok := m.targets.Lookup(s.Target)
	if !ok {
		return newCell(s, false, 1)
	}
	return newCell(s, true, t.CombustionRateMultiplier())
}

// buildRange materializes jobs[lo:hi] into a fresh map.
func (m *materializer) buildRange(jobs []materializeJob, lo, hi int) map[Coord]*Cell {
	out := make(map[Coord]*Cell, hi-lo)
	for _, job := range jobs[lo:hi] {
		out[job.coord] = m.build(job)
	}
	return out
}

func sortedCoords[V any](m map[Coord]V) []Coord {
	out := make([]Coord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return lessCoord(out[i], out[j]) })
	return out
}
