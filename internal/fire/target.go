package fire

import (
	"sync"

	"wildfire/internal/terrain"
)

// Target is an external object that burns along with the cells bound to it.
// AddCombustion and IsIgnited are only called from the authoritative
// goroutine; CombustionRateMultiplier may be called from workers.
type Target interface {
	AddCombustion(delta float64)
	IsIgnited() bool
	CombustionRateMultiplier() float64
}

// Targets resolves target handles handed out by terrain samplers.
type Targets struct {
	mu   sync.RWMutex
	next terrain.TargetHandle
	byID map[terrain.TargetHandle]Target
}

// NewTargets returns an empty registry.
func NewTargets() *Targets {
	return &Targets{byID: make(map[terrain.TargetHandle]Target)}
}

// Register stores t and returns its handle.
func (r *Targets) Register(t Target) terrain.TargetHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.byID[r.next] = t
	return r.next
}

// Unregister forgets h. Cells bound to h stop forwarding combustion.
func (r *Targets) Unregister(h terrain.TargetHandle) {
	r.mu.Lock()
	delete(r.byID, h)
	r.mu.Unlock()
}

// Lookup returns the target registered under h.
func (r *Targets) Lookup(h terrain.TargetHandle) (Target, bool) {
	if r == nil || h == terrain.NoTarget {
		return nil, false
	}
	r.mu.RLock()
	t, ok := r.byID[h]
	r.mu.RUnlock()
	return t, ok
}

// Len returns the number of registered targets.
func (r *Targets) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
