package fire

import "fmt"

// Coord addresses a cell in the simulation's local lattice. It is relative to
// the simulation anchor and is not guaranteed to reference a stored cell.
type Coord struct {
	X, Y int
}

// Add returns the coordinate offset by d.
func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// radialDirections lists the Moore neighborhood offsets.
var radialDirections = [8]Coord{
	{1, 1},
	{-1, -1},
	{1, 0},
	{0, 1},
	{1, -1},
	{-1, 1},
	{-1, 0},
	{0, -1},
}

// RadialDirections returns a copy of the eight neighbor offsets.
func RadialDirections() []Coord {
	out := make([]Coord, len(radialDirections))
	copy(out, radialDirections[:])
	return out
}

// Neighbors returns the eight coordinates surrounding c.
func (c Coord) Neighbors() [8]Coord {
	var out [8]Coord
	for i, d := range radialDirections {
		out[i] = c.Add(d)
	}
	return out
}

// lessCoord orders coordinates row-major so snapshots partition the same way
// on every run.
func lessCoord(a, b Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
