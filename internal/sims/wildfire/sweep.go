package wildfire

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// SpreadResult captures telemetry from a deterministic fire run.
type SpreadResult struct {
	WindStrength float64
	Workers      int

	// Cells is the number of materialized cells when the run ended.
	Cells int
	// Ignited counts cells that caught fire, including the origin.
	Ignited int
	// Frontier is the number of burning cells left when the run ended.
	Frontier int
	// MaxDistance is the farthest ignition from the origin, in cells.
	MaxDistance float64
	// LastActiveStep is the final step that still had a frontier.
	LastActiveStep int
	StepsSimulated int

	Wall         time.Duration
	MeanDispatch time.Duration
}

// SpreadRun ignites the viewport center of a world built from cfg and steps it
// synchronously.
func SpreadRun(cfg Config, steps int) SpreadResult {
	cfg.IgniteCenter = true
	w := NewWithConfig(cfg)
	sim := w.Simulation()
	res := SpreadResult{
		WindStrength: cfg.WindStrength,
		Workers:      sim.Config().Workers,
	}
	var dispatchTotal time.Duration
	start := time.Now()
	for step := 1; step <= steps; step++ {
		if sim.FrontierLen() == 0 {
			break
		}
		sim.Step(cfg.DT)
		res.StepsSimulated = step
		dispatchTotal += sim.Stats().LastDispatch
		if sim.FrontierLen() > 0 {
			res.LastActiveStep = step
		}
	}
	res.Wall = time.Since(start)
	if res.StepsSimulated > 0 {
		res.MeanDispatch = dispatchTotal / time.Duration(res.StepsSimulated)
	}

	stats := sim.Stats()
	res.Cells = stats.Cells
	res.Frontier = stats.Frontier
	locs := sim.FireLocations()
	res.Ignited = len(locs)
	if len(locs) > 0 {
		origin := locs[0]
		size := sim.Config().CellSize
		for _, p := range locs[1:] {
			d := p.Sub(origin)
			d[2] = 0
			res.MaxDistance = max(res.MaxDistance, d.Len()/size)
		}
	}
	return res
}

// Sweep runs SpreadRun for every combination of wind strength and worker
// count, at most parallel runs at a time. Results are ordered by strength,
// then worker count.
func Sweep(ctx context.Context, base Config, steps int, strengths []float64, workers []int, parallel int) ([]SpreadResult, error) {
	if len(strengths) == 0 || len(workers) == 0 {
		return nil, fmt.Errorf("wildfire: sweep needs at least one wind strength and worker count")
	}
	results := make([]SpreadResult, len(strengths)*len(workers))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, strength := range strengths {
		for j, n := range workers {
			idx := i*len(workers) + j
			cfg := base
			cfg.WindStrength = strength
			cfg.Fire.Workers = n
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[idx] = SpreadRun(cfg, steps)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
