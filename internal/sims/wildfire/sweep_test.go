package wildfire

import (
	"context"
	"testing"
)

func TestSpreadRunReportsGrowth(t *testing.T) {
	cfg := burnableConfig()
	cfg.DT = 1
	res := SpreadRun(cfg, 30)
	if res.StepsSimulated == 0 {
		t.Fatal("no steps simulated")
	}
	if res.Ignited < 9 {
		t.Fatalf("ignited = %d, want at least 9", res.Ignited)
	}
	if res.MaxDistance < 1 {
		t.Fatalf("max distance = %v", res.MaxDistance)
	}
	if res.Cells < res.Ignited {
		t.Fatalf("cells %d < ignited %d", res.Cells, res.Ignited)
	}
}

func TestSpreadRunStopsWithoutFuel(t *testing.T) {
	cfg := testConfig()
	cfg.Props = 0
	cfg.Terrain.WaterLevel = 1e6
	res := SpreadRun(cfg, 10)
	if res.StepsSimulated != 0 || res.Ignited != 0 {
		t.Fatalf("flooded run = %+v", res)
	}
}

func TestSweepOrdersResults(t *testing.T) {
	cfg := burnableConfig()
	strengths := []float64{0, 5}
	workers := []int{1, 3}
	results, err := Sweep(context.Background(), cfg, 8, strengths, workers, 2)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for i, s := range strengths {
		for j, n := range workers {
			r := results[i*len(workers)+j]
			if r.WindStrength != s || r.Workers != n {
				t.Fatalf("result %d = strength %v workers %d", i*len(workers)+j, r.WindStrength, r.Workers)
			}
		}
	}

	if _, err := Sweep(context.Background(), cfg, 8, nil, workers, 1); err == nil {
		t.Fatal("empty sweep accepted")
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sweep(ctx, burnableConfig(), 4, []float64{1}, []int{1}, 1); err == nil {
		t.Fatal("cancelled sweep succeeded")
	}
}
