package fire

import "testing"

func TestNeighborsFollowRadialDirections(t *testing.T) {
	dirs := RadialDirections()
	if len(dirs) != 8 {
		t.Fatalf("directions = %d, want 8", len(dirs))
	}
	seen := make(map[Coord]bool)
	for _, d := range dirs {
		if d == (Coord{}) || d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
			t.Fatalf("direction %v is not a Moore offset", d)
		}
		seen[d] = true
	}
	if len(seen) != 8 {
		t.Fatalf("directions contain duplicates: %v", dirs)
	}

	c := Coord{X: 3, Y: -2}
	for i, n := range c.Neighbors() {
		if want := c.Add(dirs[i]); n != want {
			t.Fatalf("neighbor %d = %v, want %v", i, n, want)
		}
	}

	dirs[0] = Coord{}
	if RadialDirections()[0] == (Coord{}) {
		t.Fatal("RadialDirections must return a copy")
	}
}
