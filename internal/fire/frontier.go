package fire

import "sort"

// Frontier is the set of burning cells that can still ignite a neighbor. It is
// only touched by the authoritative goroutine.
type Frontier struct {
	set map[Coord]struct{}
}

// NewFrontier returns an empty frontier sized for capacity coordinates.
func NewFrontier(capacity int) *Frontier {
	if capacity < 0 {
		capacity = 0
	}
	return &Frontier{set: make(map[Coord]struct{}, capacity)}
}

// Add inserts c. Adding a present coordinate is a no-op.
func (f *Frontier) Add(c Coord) { f.set[c] = struct{}{} }

// Remove deletes c.
func (f *Frontier) Remove(c Coord) { delete(f.set, c) }

// Contains reports whether c is on the frontier.
func (f *Frontier) Contains(c Coord) bool {
	_, ok := f.set[c]
	return ok
}

// Len returns the frontier size.
func (f *Frontier) Len() int { return len(f.set) }

// Snapshot returns the frontier in row-major order. The slice is owned by the
// caller and stays valid while the frontier changes.
func (f *Frontier) Snapshot() []Coord {
	out := make([]Coord, 0, len(f.set))
	for c := range f.set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return lessCoord(out[i], out[j]) })
	return out
}
