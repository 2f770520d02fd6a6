package fire

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

func TestStoreNeverOverwrites(t *testing.T) {
	s := NewStore(4)
	first := grassCell(Coord{1, 2}, 25)
	if err := s.Insert(Coord{1, 2}, first); err != nil {
		t.Fatal(err)
	}
	err := s.Insert(Coord{1, 2}, grassCell(Coord{1, 2}, 25))
	if !errors.Is(err, ErrCellExists) {
		t.Fatalf("duplicate insert err = %v, want ErrCellExists", err)
	}
	if got, _ := s.Get(Coord{1, 2}); got != first {
		t.Fatal("duplicate insert replaced the stored cell")
	}
	if err := s.Insert(Coord{}, nil); err == nil {
		t.Fatal("nil insert must fail")
	}
	if s.Len() != 1 || !s.Contains(Coord{1, 2}) || s.Contains(Coord{}) {
		t.Fatal("store contents wrong after rejected inserts")
	}
}

func TestFrontierSnapshotIsRowMajor(t *testing.T) {
	f := NewFrontier(0)
	for _, c := range []Coord{{2, 1}, {-1, 0}, {0, 1}, {3, -2}, {0, 0}} {
		f.Add(c)
	}
	f.Add(Coord{0, 0})
	f.Remove(Coord{3, -2})
	want := []Coord{{-1, 0}, {0, 0}, {0, 1}, {2, 1}}
	if got := f.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	if f.Len() != 4 || f.Contains(Coord{3, -2}) {
		t.Fatal("frontier membership wrong")
	}
}

func TestCellCombustionIsAtomic(t *testing.T) {
	cell := grassCell(Coord{}, 25)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				cell.addCombustion(0.001)
			}
		}()
	}
	wg.Wait()
	if got := cell.Combustion(); got < 16-1e-6 || got > 16+1e-6 {
		t.Fatalf("combustion = %v, want 16", got)
	}
}

func TestCellIgnition(t *testing.T) {
	cell := grassCell(Coord{}, 25)
	cell.addCombustion(1.5)
	cell.Ignite()
	if cell.Combustion() != 1.5 {
		t.Fatalf("Ignite lowered combustion to %v", cell.Combustion())
	}

	s := terrain.DefaultSettings().Classify(terrain.SurfaceWood, mgl64.Vec3{}, 7)
	bound := newCell(s, true, 0.5)
	if bound.IgnitionRate != 0.2 {
		t.Fatalf("bound ignition rate = %v, want 0.2", bound.IgnitionRate)
	}
	bound.Ignite()
	if bound.Ignited() {
		t.Fatal("bound cell burns before its target")
	}
	bound.targetIgnited.Store(true)
	if !bound.Ignited() {
		t.Fatal("bound cell must burn once its target has ignited")
	}

	if obstacleCell(mgl64.Vec3{}).Ignited() {
		t.Fatal("fresh obstacle reports ignited")
	}
}

func TestTargetsRegistry(t *testing.T) {
	r := NewTargets()
	a := r.Register(&recordingTarget{})
	b := r.Register(&recordingTarget{})
	if a == terrain.NoTarget || a == b {
		t.Fatalf("handles %d and %d must be distinct and non-zero", a, b)
	}
	if _, ok := r.Lookup(terrain.NoTarget); ok {
		t.Fatal("NoTarget must not resolve")
	}
	r.Unregister(a)
	if _, ok := r.Lookup(a); ok {
		t.Fatal("unregistered target still resolves")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}
