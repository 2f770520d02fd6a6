package fire

// batchResult is what one worker reports back for its slice of the frontier.
type batchResult struct {
	ignited   map[Coord]struct{}
	exhausted map[Coord]struct{}
	// targetDeltas sums the increments applied to target-bound cells. Several
	// frontier cells can feed the same neighbor in one tick.
	targetDeltas map[Coord]float64
	// pending holds absent neighbors with the elevation of the cell that
	// reached for them.
	pending map[Coord]float64
	// newCells is filled by the materializer after the spread pass.
	newCells map[Coord]*Cell

	negativeDeltas int
	duplicateCells int
}

func newBatchResult() *batchResult {
	return &batchResult{
		ignited:      make(map[Coord]struct{}),
		exhausted:    make(map[Coord]struct{}),
		targetDeltas: make(map[Coord]float64),
		pending:      make(map[Coord]float64),
		newCells:     make(map[Coord]*Cell),
	}
}

// merge folds o into r: sets are unioned and target deltas summed.
func (r *batchResult) merge(o *batchResult) {
	if o == nil {
		return
	}
	for c := range o.ignited {
		r.ignited[c] = struct{}{}
	}
	for c := range o.exhausted {
		r.exhausted[c] = struct{}{}
	}
	for c, d := range o.targetDeltas {
		r.targetDeltas[c] += d
	}
	for c, z := range o.pending {
		if _, ok := r.pending[c]; !ok {
			r.pending[c] = z
		}
	}
	for c, cell := range o.newCells {
		if _, ok := r.newCells[c]; ok {
			r.duplicateCells++
			continue
		}
		r.newCells[c] = cell
	}
	r.negativeDeltas += o.negativeDeltas
	r.duplicateCells += o.duplicateCells
}

// spreadEnv is the read-only input shared by every worker of one dispatch.
type spreadEnv struct {
	store *Store
	wind  Wind
	dt    float64

	downward      float64
	windThreshold float64
	minWindEffect float64
}

// combustible reports whether target can be ignited by owner: it must be
// burnable, not burning yet, and within the owner's vertical reach.
func combustible(target, owner *Cell, downward float64) bool {
	if target.Obstacle || target.Ignited() {
		return false
	}
	z, oz := target.Location.Z(), owner.Location.Z()
	return z >= oz-downward && z <= oz+owner.FireHeight
}

// hasFuel reports whether the burning cell at c still has a neighbor it can
// ignite. Neighbors that were never materialized count as fuel.
func hasFuel(store *Store, c Coord, owner *Cell, downward float64) bool {
	for _, n := range c.Neighbors() {
		cell, ok := store.Get(n)
		if !ok {
			return true
		}
		if combustible(cell, owner, downward) {
			return true
		}
	}
	return false
}

// evaluate spreads fire from every frontier coordinate in coords. The only
// writes it performs are atomic combustion increments on neighbor cells.
func (env *spreadEnv) evaluate(coords []Coord) *batchResult {
	res := newBatchResult()
	dirs := env.wind.Directions(env.windThreshold)
	for _, c := range coords {
		owner, ok := env.store.Get(c)
		if !ok || owner.Obstacle {
			res.exhausted[c] = struct{}{}
			continue
		}
		for _, d := range dirs {
			n := c.Add(d)
			cell, ok := env.store.Get(n)
			if !ok {
				if _, seen := res.pending[n]; !seen {
					res.pending[n] = owner.Location.Z()
				}
				continue
			}
			if !combustible(cell, owner, env.downward) {
				continue
			}
			effect := env.wind.Effect(owner.Location, cell.Location, env.windThreshold, env.minWindEffect)
			delta := env.dt * effect * cell.IgnitionRate
			if delta < 0 {
				res.negativeDeltas++
				continue
			}
			if delta == 0 {
				continue
			}
			state := cell.addCombustion(delta)
			if state >= IgnitionThreshold && cell.Ignited() {
				res.ignited[n] = struct{}{}
			}
			if cell.HasTarget() {
				res.targetDeltas[n] += delta
			}
		}
		if !hasFuel(env.store, c, owner, env.downward) {
			res.exhausted[c] = struct{}{}
		}
	}
	return res
}
