package fire

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/terrain"
)

// Phase is the dispatch state of a simulation.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseDispatching
	PhaseMerging
)

func (p Phase) String() string {
	switch p {
	case PhaseDispatching:
		return "dispatching"
	case PhaseMerging:
		return "merging"
	default:
		return "idle"
	}
}

// Stats summarizes simulation progress.
type Stats struct {
	Ticks      uint64
	Dispatches uint64

	Cells    int
	Frontier int
	Burning  int

	PendingTargetUpdates    int
	DispatchedTargetUpdates uint64

	// Elapsed is the simulated time consumed by merged dispatches.
	Elapsed      float64
	LastDispatch time.Duration
	LastDelta    float64
}

// targetUpdate is a combustion delta waiting to be forwarded to the target
// bound at coord.
type targetUpdate struct {
	coord Coord
	delta float64
}

// dispatchJob is the snapshot a dispatch works from. Nothing in it is shared
// with the authoritative goroutine.
type dispatchJob struct {
	frontier []Coord
	seeds    []Coord
	wind     Wind
	dt       float64
}

type dispatchResult struct {
	batch    *batchResult
	dt       float64
	elapsed  time.Duration
	frontier int
	err      error
}

// Simulation spreads fire over a sparse lattice anchored at Config.Anchor.
//
// Every exported method except Phase must be called from one goroutine, the
// authoritative goroutine. Tick hands the spread and materialization passes to
// worker goroutines and merges their results on a later call.
type Simulation struct {
	cfg     Config
	log     *slog.Logger
	targets *Targets
	mat     *materializer

	store    *Store
	frontier *Frontier
	wind     Wind

	phase    atomic.Int32
	inFlight atomic.Bool
	results  chan *dispatchResult

	accumulated float64
	paused      bool

	// seeds get their whole neighborhood materialized by the next dispatch.
	seeds []Coord
	// late holds target-bound cells whose target ignited after the cell
	// crossed the threshold.
	late map[Coord]struct{}
	lit  map[Coord]struct{}

	bound map[terrain.TargetHandle][]Coord

	pending     []targetUpdate
	pendingHead int

	fireLocations []mgl64.Vec3
	newLocations  []mgl64.Vec3

	boundsMin, boundsMax mgl64.Vec3
	hasBounds            bool

	stats       Stats
	limitWarned bool
}

// New returns an idle simulation. targets may be nil when no sampled surface
// is bound to external targets.
func New(cfg Config, sampler terrain.Sampler, targets *Targets) *Simulation {
	cfg = cfg.normalized()
	if targets == nil {
		targets = NewTargets()
	}
	capacity := cfg.SpreadLimit * cfg.SpreadLimit
	if capacity > 1<<12 {
		capacity = 1 << 12
	}
	store := NewStore(capacity)
	return &Simulation{
		cfg:     cfg,
		log:     cfg.Logger.With("component", "fire"),
		targets: targets,
		mat: &materializer{
			store:    store,
			sampler:  sampler,
			targets:  targets,
			anchor:   cfg.Anchor,
			cellSize: cfg.CellSize,
		},
		store:    store,
		frontier: NewFrontier(min(cfg.SpreadLimit, 1<<10)),
		results:  make(chan *dispatchResult, 1),
		late:     make(map[Coord]struct{}),
		lit:      make(map[Coord]struct{}),
		bound:    make(map[terrain.TargetHandle][]Coord),
	}
}

// Config returns the normalized configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Targets returns the target registry cells are bound through.
func (s *Simulation) Targets() *Targets { return s.targets }

// Phase reports the dispatch state. It is safe to call from any goroutine.
func (s *Simulation) Phase() Phase { return Phase(s.phase.Load()) }

// Busy reports whether a dispatch is in flight.
func (s *Simulation) Busy() bool { return s.inFlight.Load() }

// Wind returns the current wind.
func (s *Simulation) Wind() Wind { return s.wind }

// OnWindChanged updates the wind used by the next dispatch.
func (s *Simulation) OnWindChanged(dir mgl64.Vec3, magnitude float64) {
	s.wind = NewWind(dir, magnitude)
	if s.cfg.Debug {
		s.log.Debug("wind changed", "magnitude", s.wind.Magnitude, "bucket", s.wind.Bucket(),
			"active", s.wind.Active(s.cfg.WindThreshold))
	}
}

// Pause stops Tick from issuing new dispatches. An in-flight dispatch still
// completes and is merged after Resume.
func (s *Simulation) Pause() { s.paused = true }

// Resume re-enables Tick.
func (s *Simulation) Resume() { s.paused = false }

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool { return s.paused }

// CoordAt returns the lattice coordinate nearest to the world point p.
func (s *Simulation) CoordAt(p mgl64.Vec3) Coord { return s.mat.coordAt(p) }

// WorldPoint returns the world position of c at elevation z.
func (s *Simulation) WorldPoint(c Coord, z float64) mgl64.Vec3 { return s.mat.worldPoint(c, z) }

// Cell returns the cell at c.
func (s *Simulation) Cell(c Coord) (*Cell, bool) { return s.store.Get(c) }

// CellCount returns the number of materialized cells.
func (s *Simulation) CellCount() int { return s.store.Len() }

// RangeCells calls fn for every materialized cell until fn returns false.
func (s *Simulation) RangeCells(fn func(Coord, *Cell) bool) { s.store.Range(fn) }

// Frontier returns the frontier in row-major order.
func (s *Simulation) Frontier() []Coord { return s.frontier.Snapshot() }

// FrontierLen returns the frontier size.
func (s *Simulation) FrontierLen() int { return s.frontier.Len() }

// OnFrontier reports whether c is on the frontier.
func (s *Simulation) OnFrontier(c Coord) bool { return s.frontier.Contains(c) }

// PendingTargetUpdates returns the number of queued target deltas.
func (s *Simulation) PendingTargetUpdates() int { return len(s.pending) - s.pendingHead }

// Stats returns a progress summary.
func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Cells = s.store.Len()
	st.Frontier = s.frontier.Len()
	st.Burning = len(s.lit)
	st.PendingTargetUpdates = s.PendingTargetUpdates()
	return st
}

// FireLocations returns the location of every cell that has ignited, in
// ignition order. The slice must not be modified.
func (s *Simulation) FireLocations() []mgl64.Vec3 { return s.fireLocations }

// DrainIgnited returns the locations ignited since the previous call.
func (s *Simulation) DrainIgnited() []mgl64.Vec3 {
	out := s.newLocations
	s.newLocations = nil
	return out
}

// Bounds returns the box enclosing every materialized cell.
func (s *Simulation) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	return s.boundsMin, s.boundsMax, s.hasBounds
}

// StartAt ignites the cell under origin. It fails without changing any state
// when the surface there cannot burn.
func (s *Simulation) StartAt(origin mgl64.Vec3) bool {
	s.Settle()
	c := s.mat.coordAt(origin)
	if cell, ok := s.store.Get(c); ok {
		if cell.Obstacle {
			s.log.Warn("cannot start fire on obstacle", "coord", c, "origin", origin)
			return false
		}
		s.ignite(c, cell)
		return true
	}

	sample, ok := s.mat.sampler.Sample(origin)
	if !ok || sample.Obstacle {
		s.log.Warn("cannot start fire here", "coord", c, "origin", origin, "found", ok)
		return false
	}
	cell := s.mat.fromSample(sample)
	if !s.insert(c, cell) {
		return false
	}
	s.ignite(c, cell)
	return true
}

func (s *Simulation) ignite(c Coord, cell *Cell) {
	cell.Ignite()
	s.frontier.Add(c)
	s.seeds = append(s.seeds, c)
	s.recordIgnition(c, cell)
}

// Tick advances the simulation by dt seconds without blocking. It forwards a
// bounded slice of queued target updates, merges a finished dispatch, and
// starts the next one. Time that passes while a dispatch is in flight is
// carried over to the next dispatch.
func (s *Simulation) Tick(dt float64) {
	if s.paused {
		return
	}
	s.stats.Ticks++
	s.dispatchTargetUpdates()

	select {
	case res := <-s.results:
		s.merge(res)
	default:
	}

	s.accumulated += dt
	if s.inFlight.Load() {
		return
	}
	s.flushLate()
	job, ok := s.beginDispatch()
	if !ok {
		return
	}
	go func() {
		s.results <- s.runDispatch(job)
	}()
}

// Step advances the simulation by dt and waits for the dispatch to be merged.
// It ignores Pause so a paused simulation can be single-stepped.
func (s *Simulation) Step(dt float64) {
	s.Settle()
	s.stats.Ticks++
	s.dispatchTargetUpdates()
	s.flushLate()
	s.accumulated += dt
	job, ok := s.beginDispatch()
	if !ok {
		return
	}
	s.merge(s.runDispatch(job))
}

// Settle waits for an in-flight dispatch and merges it.
func (s *Simulation) Settle() {
	if !s.inFlight.Load() {
		return
	}
	s.merge(<-s.results)
}

// beginDispatch snapshots everything the workers need and takes the
// re-entrancy guard.
func (s *Simulation) beginDispatch() (dispatchJob, bool) {
	if s.frontier.Len() == 0 {
		s.accumulated = 0
		return dispatchJob{}, false
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return dispatchJob{}, false
	}
	s.phase.Store(int32(PhaseDispatching))
	job := dispatchJob{
		frontier: s.frontier.Snapshot(),
		seeds:    s.seeds,
		wind:     s.wind,
		dt:       s.accumulated,
	}
	s.seeds = nil
	s.accumulated = 0
	s.stats.Dispatches++
	return job, true
}

// runDispatch is the worker side of a tick: spread over the frontier, then
// materialize the cells around whatever ignited. It never mutates the store's
// structure.
func (s *Simulation) runDispatch(job dispatchJob) *dispatchResult {
	start := time.Now()
	env := &spreadEnv{
		store:         s.store,
		wind:          job.wind,
		dt:            job.dt,
		downward:      s.cfg.DownwardThreshold,
		windThreshold: s.cfg.WindThreshold,
		minWindEffect: s.cfg.MinWindEffect,
	}
	parts, err := fanOut(s.cfg.Workers, len(job.frontier), func(lo, hi int) *batchResult {
		return env.evaluate(job.frontier[lo:hi])
	})
	agg := newBatchResult()
	for _, p := range parts {
		agg.merge(p)
	}

	expand := append(sortedCoords(agg.ignited), job.seeds...)
	jobs := s.mat.jobs(expand, agg.pending)
	cells, matErr := fanOut(s.cfg.Workers, len(jobs), func(lo, hi int) map[Coord]*Cell {
		return s.mat.buildRange(jobs, lo, hi)
	})
	for _, part := range cells {
		for c, cell := range part {
			if _, dup := agg.newCells[c]; dup {
				agg.duplicateCells++
				continue
			}
			agg.newCells[c] = cell
		}
	}
	if err == nil {
		err = matErr
	}
	return &dispatchResult{
		batch:    agg,
		dt:       job.dt,
		elapsed:  time.Since(start),
		frontier: len(job.frontier),
		err:      err,
	}
}

// merge applies a dispatch to the authoritative state in a fixed order:
// frontier removals, cell insertions, frontier additions, target updates.
func (s *Simulation) merge(res *dispatchResult) {
	s.phase.Store(int32(PhaseMerging))
	defer func() {
		s.inFlight.Store(false)
		s.phase.Store(int32(PhaseIdle))
	}()
	b := res.batch
	if res.err != nil {
		s.log.Error("fire dispatch partition failed", "err", res.err)
	}
	if b.negativeDeltas > 0 {
		s.log.Error("negative combustion delta rejected", "count", b.negativeDeltas)
	}
	if b.duplicateCells > 0 {
		s.log.Error("cell materialized twice in one dispatch", "count", b.duplicateCells)
	}

	// Exhaustion is decided here, after every partition's increments have
	// landed. Only flagged cells and frontier cells next to a new ignition
	// can have lost their last fuel this tick.
	candidates := make(map[Coord]struct{}, len(b.exhausted))
	for c := range b.exhausted {
		candidates[c] = struct{}{}
	}
	for c := range b.ignited {
		for _, n := range c.Neighbors() {
			if s.frontier.Contains(n) {
				candidates[n] = struct{}{}
			}
		}
	}
	removed := 0
	for _, c := range sortedCoords(candidates) {
		if !s.frontier.Contains(c) {
			continue
		}
		owner, ok := s.store.Get(c)
		if ok && !owner.Obstacle && hasFuel(s.store, c, owner, s.cfg.DownwardThreshold) {
			continue
		}
		s.frontier.Remove(c)
		removed++
	}

	inserted := 0
	for _, c := range sortedCoords(b.newCells) {
		if s.insert(c, b.newCells[c]) {
			inserted++
		}
	}

	added := 0
	for _, c := range sortedCoords(b.ignited) {
		if s.addIgnited(c) {
			added++
		}
	}
	s.flushLate()

	for _, c := range sortedCoords(b.targetDeltas) {
		s.pending = append(s.pending, targetUpdate{coord: c, delta: b.targetDeltas[c]})
	}

	s.stats.Elapsed += res.dt
	s.stats.LastDispatch = res.elapsed
	s.stats.LastDelta = res.dt
	if !s.limitWarned && s.store.Len() > s.cfg.SpreadLimit*s.cfg.SpreadLimit {
		s.limitWarned = true
		s.log.Warn("fire spread limit exceeded", "cells", s.store.Len(), "limit", s.cfg.SpreadLimit)
	}
	if s.cfg.Debug {
		s.log.Debug("fire dispatch merged",
			"dt", res.dt,
			"frontier", res.frontier,
			"ignited", len(b.ignited),
			"removed", removed,
			"inserted", inserted,
			"added", added,
			"target_updates", len(b.targetDeltas),
			"elapsed", res.elapsed,
		)
	}
}

// insert stores a materialized cell and refreshes its target flag.
func (s *Simulation) insert(c Coord, cell *Cell) bool {
	if err := s.store.Insert(c, cell); err != nil {
		s.log.Error("materialization overwrote nothing", "err", err)
		return false
	}
	if cell.HasTarget() {
		s.bound[cell.Target] = append(s.bound[cell.Target], c)
		if t, ok := s.targets.Lookup(cell.Target); ok && t.IsIgnited() {
			cell.targetIgnited.Store(true)
		}
	}
	s.extendBounds(cell.Location)
	return true
}

// addIgnited records a newly burning cell and puts it on the frontier when it
// can still spread.
func (s *Simulation) addIgnited(c Coord) bool {
	cell, ok := s.store.Get(c)
	if !ok {
		return false
	}
	if _, seen := s.lit[c]; seen {
		return false
	}
	s.recordIgnition(c, cell)
	if !hasFuel(s.store, c, cell, s.cfg.DownwardThreshold) {
		return false
	}
	s.frontier.Add(c)
	return true
}

func (s *Simulation) recordIgnition(c Coord, cell *Cell) {
	if _, seen := s.lit[c]; seen {
		return
	}
	s.lit[c] = struct{}{}
	s.fireLocations = append(s.fireLocations, cell.Location)
	s.newLocations = append(s.newLocations, cell.Location)
}

// flushLate adds late-ignited cells once no dispatch is reading the frontier
// snapshot they would join. Their neighborhoods are materialized by the next
// dispatch.
func (s *Simulation) flushLate() {
	if len(s.late) == 0 {
		return
	}
	for _, c := range sortedCoords(s.late) {
		if s.addIgnited(c) {
			s.seeds = append(s.seeds, c)
		}
	}
	clear(s.late)
}

// dispatchTargetUpdates forwards at most MaxTargetUpdatesPerTick queued deltas
// to their targets, oldest first.
func (s *Simulation) dispatchTargetUpdates() {
	for n := 0; n < s.cfg.MaxTargetUpdatesPerTick && s.pendingHead < len(s.pending); n++ {
		u := s.pending[s.pendingHead]
		s.pendingHead++
		s.stats.DispatchedTargetUpdates++
		cell, ok := s.store.Get(u.coord)
		if !ok {
			continue
		}
		t, ok := s.targets.Lookup(cell.Target)
		if !ok {
			continue
		}
		t.AddCombustion(u.delta)
		if t.IsIgnited() && !cell.targetIgnited.Load() {
			s.targetIgnited(cell.Target)
		}
	}
	if s.pendingHead == len(s.pending) {
		s.pending = s.pending[:0]
		s.pendingHead = 0
	} else if s.pendingHead > 1024 && s.pendingHead*2 > len(s.pending) {
		s.pending = append(s.pending[:0], s.pending[s.pendingHead:]...)
		s.pendingHead = 0
	}
}

// targetIgnited flips the cached flag on every cell bound to h. Cells that
// already crossed the threshold become burning now.
func (s *Simulation) targetIgnited(h terrain.TargetHandle) {
	for _, c := range s.bound[h] {
		cell, ok := s.store.Get(c)
		if !ok {
			continue
		}
		cell.targetIgnited.Store(true)
		if cell.Combustion() >= IgnitionThreshold {
			s.late[c] = struct{}{}
		}
	}
}

func (s *Simulation) extendBounds(p mgl64.Vec3) {
	if !s.hasBounds {
		s.boundsMin, s.boundsMax, s.hasBounds = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		s.boundsMin[i] = math.Min(s.boundsMin[i], p[i])
		s.boundsMax[i] = math.Max(s.boundsMax[i], p[i])
	}
}
