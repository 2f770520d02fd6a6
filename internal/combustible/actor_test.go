package combustible

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/fire"
	"wildfire/internal/terrain"
)

func TestAddCombustionClamps(t *testing.T) {
	a := NewActor("crate", mgl64.Vec3{})
	a.AddCombustion(-1)
	if a.Combustion() != 0 {
		t.Fatalf("combustion = %v, want 0", a.Combustion())
	}
	a.AddCombustion(0.4)
	if a.IsIgnited() {
		t.Fatal("actor ignited below its maximum")
	}
	a.AddCombustion(5)
	if a.Combustion() != a.MaxCombustion || !a.IsIgnited() {
		t.Fatalf("combustion = %v, ignited = %v", a.Combustion(), a.IsIgnited())
	}
	if a.Level() != 1 {
		t.Fatalf("level = %v, want 1", a.Level())
	}
}

type recordingStarter struct {
	at  []mgl64.Vec3
	err error
}

func (r *recordingStarter) StartFire(p mgl64.Vec3) error {
	r.at = append(r.at, p)
	return r.err
}

func TestStartFire(t *testing.T) {
	a := NewActor("barn", mgl64.Vec3{5, 6, 7})
	s := &recordingStarter{}
	if err := a.StartFire(s); err != nil {
		t.Fatal(err)
	}
	if !a.IsIgnited() {
		t.Fatal("StartFire did not ignite the actor")
	}
	if len(s.at) != 1 || s.at[0] != a.Position {
		t.Fatalf("fire started at %v, want %v", s.at, a.Position)
	}

	s.err = errors.New("no ground")
	if err := NewActor("b", mgl64.Vec3{}).StartFire(s); !errors.Is(err, s.err) {
		t.Fatalf("err = %v", err)
	}
	if err := NewActor("c", mgl64.Vec3{}).StartFire(nil); err != nil {
		t.Fatal(err)
	}
}

func TestActorBurnsWithFire(t *testing.T) {
	cfg := fire.DefaultConfig()
	cfg.Workers = 2
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	targets := fire.NewTargets()
	shed := NewActor("shed", mgl64.Vec3{100, 0, 0})
	h := shed.Register(targets)

	field := terrain.NewFlat(0, terrain.SurfaceGrass)
	sampler := terrain.SamplerFunc(func(p mgl64.Vec3) (terrain.Sample, bool) {
		s, ok := field.Sample(p)
		if ok && p.X() >= 80 && p.X() <= 120 && p.Y() >= -20 && p.Y() <= 20 {
			s.Surface = terrain.SurfaceWood
			s.Target = h
		}
		return s, ok
	})

	sim := fire.New(cfg, sampler, targets)
	m := fire.NewManager()
	m.Register(sim)
	if err := m.StartFire(mgl64.Vec3{}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 300 && !shed.IsIgnited(); i++ {
		sim.Step(0.5)
	}
	if !shed.IsIgnited() {
		t.Fatalf("shed never caught fire, combustion %v", shed.Combustion())
	}

	sim.RangeCells(func(c fire.Coord, cell *fire.Cell) bool {
		if cell.HasTarget() && cell.IgnitionRate != 0.6*DefaultRate {
			t.Fatalf("bound cell %v rate = %v", c, cell.IgnitionRate)
		}
		return true
	})
}

func TestActorStartsFireThroughManager(t *testing.T) {
	cfg := fire.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	sim := fire.New(cfg, terrain.NewFlat(0, terrain.SurfaceGrass), nil)
	m := fire.NewManager()
	m.Register(sim)

	a := NewActor("torch", mgl64.Vec3{50, 50, 0})
	if err := a.StartFire(m); err != nil {
		t.Fatal(err)
	}
	cell, ok := sim.Cell(sim.CoordAt(a.Position))
	if !ok || cell.Combustion() != 1 {
		t.Fatal("fire not started under the actor")
	}
}
