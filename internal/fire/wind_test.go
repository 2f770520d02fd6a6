package fire

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestQuantizeWind(t *testing.T) {
	cases := []struct {
		dir  mgl64.Vec3
		want int
	}{
		{mgl64.Vec3{1, 0, 0}, 0},
		{mgl64.Vec3{1, 0.3, 0}, 0},
		{mgl64.Vec3{1, 0, 5}, 0},
		{mgl64.Vec3{1, 1, 0}, 1},
		{mgl64.Vec3{0, 1, 0}, 2},
		{mgl64.Vec3{-1, 1, 0}, 3},
		{mgl64.Vec3{-1, 0, 0}, 4},
		{mgl64.Vec3{-1, -1, 0}, 5},
		{mgl64.Vec3{0, -1, 0}, 6},
		{mgl64.Vec3{1, -1, 0}, 7},
		{mgl64.Vec3{1, -0.3, 0}, 0},
		{mgl64.Vec3{0, 0, 1}, 0},
	}
	for _, tc := range cases {
		if got := QuantizeWind(tc.dir); got != tc.want {
			t.Fatalf("QuantizeWind(%v) = %d, want %d", tc.dir, got, tc.want)
		}
	}
}

func TestWindNeighborsLeadWithBucketDirection(t *testing.T) {
	for b, dirs := range windNeighbors {
		lead := dirs[0]
		if got := QuantizeWind(mgl64.Vec3{float64(lead.X), float64(lead.Y), 0}); got != b {
			t.Fatalf("bucket %d leads with %v which quantizes to %d", b, lead, got)
		}
		seen := map[Coord]bool{}
		for _, d := range dirs {
			if seen[d] {
				t.Fatalf("bucket %d repeats %v", b, d)
			}
			seen[d] = true
		}
	}
}

func TestWindActivation(t *testing.T) {
	const threshold = 2.0
	if NewWind(mgl64.Vec3{1, 0, 0}, 1.9).Active(threshold) {
		t.Fatal("wind below threshold must be inactive")
	}
	if !NewWind(mgl64.Vec3{1, 0, 0}, 2).Active(threshold) {
		t.Fatal("wind at threshold must be active")
	}
	if NewWind(mgl64.Vec3{}, 10).Active(threshold) {
		t.Fatal("wind without direction must be inactive")
	}
	if got := len(NewWind(mgl64.Vec3{1, 0, 0}, 1).Directions(threshold)); got != 8 {
		t.Fatalf("calm wind spreads in %d directions, want 8", got)
	}
	if got := len(NewWind(mgl64.Vec3{1, 0, 0}, 5).Directions(threshold)); got != 3 {
		t.Fatalf("active wind spreads in %d directions, want 3", got)
	}
	w := NewWind(mgl64.Vec3{0, 3, 0}, 5)
	if !w.Direction.ApproxEqual(mgl64.Vec3{0, 1, 0}) || w.Bucket() != 2 {
		t.Fatalf("NewWind did not normalize: %+v", w)
	}
}

func TestWindEffectFloor(t *testing.T) {
	const (
		threshold = 2.0
		floor     = 0.5
	)
	w := NewWind(mgl64.Vec3{1, 0, 0}, 5)
	origin := mgl64.Vec3{}

	if got := w.Effect(origin, mgl64.Vec3{-25, 0, 0}, threshold, floor); got != floor {
		t.Fatalf("upwind effect = %v, want floor %v", got, floor)
	}
	if got := w.Effect(origin, mgl64.Vec3{0, 25, 0}, threshold, floor); got != floor {
		t.Fatalf("crosswind effect = %v, want floor %v", got, floor)
	}
	if got := w.Effect(origin, mgl64.Vec3{25, 0, 0}, threshold, floor); !near(got, 5) {
		t.Fatalf("downwind effect = %v, want 5", got)
	}
	calm := NewWind(mgl64.Vec3{1, 0, 0}, 1)
	if got := calm.Effect(origin, mgl64.Vec3{25, 0, 0}, threshold, floor); got != floor {
		t.Fatalf("calm effect = %v, want floor %v", got, floor)
	}
}
