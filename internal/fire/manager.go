package fire

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNoSource is returned by Manager.StartFire when no simulation is registered.
	ErrNoSource = errors.New("fire: no fire source registered")
	// ErrUnknownSource is returned when unregistering a simulation that was never registered.
	ErrUnknownSource = errors.New("fire: unknown fire source")
	// ErrNonCombustible is returned when a fire cannot be started at a point.
	ErrNonCombustible = errors.New("fire: origin is not combustible")
)

// Manager tracks the fire simulations of a world. The first registered
// simulation is the global source that StartFire uses.
type Manager struct {
	mu     sync.Mutex
	sims   []*Simulation
	paused bool
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds sim. A simulation registered while the manager is paused
// starts paused.
func (m *Manager) Register(sim *Simulation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sims {
		if s == sim {
			return
		}
	}
	if m.paused {
		sim.Pause()
	}
	m.sims = append(m.sims, sim)
}

// Unregister removes sim. When it was the global source the next registered
// simulation takes over.
func (m *Manager) Unregister(sim *Simulation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sims {
		if s == sim {
			m.sims = append(m.sims[:i], m.sims[i+1:]...)
			return nil
		}
	}
	return ErrUnknownSource
}

// Global returns the simulation fires are started on.
func (m *Manager) Global() (*Simulation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sims) == 0 {
		return nil, false
	}
	return m.sims[0], true
}

// Sources returns the registered simulations in registration order.
func (m *Manager) Sources() []*Simulation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Simulation(nil), m.sims...)
}

// StartFire starts a fire at p on the global source.
func (m *Manager) StartFire(p mgl64.Vec3) error {
	sim, ok := m.Global()
	if !ok {
		return ErrNoSource
	}
	if !sim.StartAt(p) {
		return fmt.Errorf("start fire at %v: %w", p, ErrNonCombustible)
	}
	return nil
}

// SetPaused pauses or resumes every registered simulation.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
	for _, s := range m.sims {
		if paused {
			s.Pause()
		} else {
			s.Resume()
		}
	}
}

// Tick advances every registered simulation.
func (m *Manager) Tick(dt float64) {
	for _, s := range m.Sources() {
		s.Tick(dt)
	}
}

// Relevant returns the simulations whose materialized area lies within
// distance of p.
func (m *Manager) Relevant(p mgl64.Vec3, distance float64) []*Simulation {
	var out []*Simulation
	for _, s := range m.Sources() {
		lo, hi, ok := s.Bounds()
		if !ok {
			continue
		}
		if boxDistance(p, lo, hi) <= distance {
			out = append(out, s)
		}
	}
	return out
}

// Bounds returns the box enclosing every registered simulation.
func (m *Manager) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	for _, s := range m.Sources() {
		slo, shi, sok := s.Bounds()
		if !sok {
			continue
		}
		if !ok {
			lo, hi, ok = slo, shi, true
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], slo[i])
			hi[i] = max(hi[i], shi[i])
		}
	}
	return lo, hi, ok
}

func boxDistance(p, lo, hi mgl64.Vec3) float64 {
	var d mgl64.Vec3
	for i := 0; i < 3; i++ {
		switch {
		case p[i] < lo[i]:
			d[i] = lo[i] - p[i]
		case p[i] > hi[i]:
			d[i] = p[i] - hi[i]
		}
	}
	return d.Len()
}
