package fire

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"cell_size":          "40",
		"downward_threshold": "35",
		"spread_limit":       "500",
		"max_target_updates": "12",
		"wind_threshold":     "3.5",
		"min_wind_effect":    "0.2",
		"workers":            "3",
		"debug":              "true",
	})
	if cfg.CellSize != 40 || cfg.DownwardThreshold != 35 || cfg.SpreadLimit != 500 {
		t.Fatalf("grid keys not applied: %+v", cfg)
	}
	if cfg.MaxTargetUpdatesPerTick != 12 || cfg.Workers != 3 || !cfg.Debug {
		t.Fatalf("runtime keys not applied: %+v", cfg)
	}
	if cfg.WindThreshold != 3.5 || cfg.MinWindEffect != 0.2 {
		t.Fatalf("wind keys not applied: %+v", cfg)
	}
}

func TestFromMapIgnoresInvalidValues(t *testing.T) {
	def := DefaultConfig()
	cfg := FromMap(map[string]string{
		"cell_size":       "4",
		"spread_limit":    "-1",
		"workers":         "many",
		"min_wind_effect": "-0.5",
		"debug":           "perhaps",
	})
	if cfg.CellSize != def.CellSize || cfg.SpreadLimit != def.SpreadLimit || cfg.Workers != def.Workers {
		t.Fatalf("invalid values applied: %+v", cfg)
	}
	if cfg.MinWindEffect != def.MinWindEffect || cfg.Debug {
		t.Fatalf("invalid values applied: %+v", cfg)
	}
	if got := FromMap(nil); got.CellSize != def.CellSize {
		t.Fatal("nil map must yield defaults")
	}
}

func TestNormalizedClampsConfig(t *testing.T) {
	cfg := Config{CellSize: 1, DownwardThreshold: -3, MinWindEffect: -1}.normalized()
	if cfg.CellSize != 10 || cfg.DownwardThreshold != 0 || cfg.MinWindEffect != 0 {
		t.Fatalf("normalized = %+v", cfg)
	}
	if cfg.Workers < 1 || cfg.MaxTargetUpdatesPerTick < 1 || cfg.Logger == nil {
		t.Fatalf("normalized left zero runtime values: %+v", cfg)
	}
}

func TestNormalizedBoundsSpreadLimit(t *testing.T) {
	cfg := Config{SpreadLimit: math.MaxInt}.normalized()
	if cfg.SpreadLimit != MaxSpreadLimit {
		t.Fatalf("spread limit = %d, want %d", cfg.SpreadLimit, MaxSpreadLimit)
	}
	if n := cfg.SpreadLimit * cfg.SpreadLimit; n <= 0 || n > math.MaxInt32 {
		t.Fatalf("spread limit squared = %d", n)
	}
	if cfg := (Config{SpreadLimit: -4}).normalized(); cfg.SpreadLimit != 1 {
		t.Fatalf("spread limit = %d, want 1", cfg.SpreadLimit)
	}

	big := quietConfig()
	big.SpreadLimit = math.MaxInt
	sim := New(big, terrain.NewFlat(0, terrain.SurfaceGrass), nil)
	if !sim.StartAt(mgl64.Vec3{}) {
		t.Fatal("StartAt on grass failed")
	}
	sim.Step(0.5)
	if sim.CellCount() != 9 {
		t.Fatalf("cells = %d, want 9", sim.CellCount())
	}
	if sim.Config().SpreadLimit != MaxSpreadLimit {
		t.Fatalf("simulation spread limit = %d", sim.Config().SpreadLimit)
	}
}
