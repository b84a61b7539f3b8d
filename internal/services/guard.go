package services

import (
	"sync"

	"eventcatalog/internal/domain"
)

// MutationGuard admits at most one in-flight save or delete per event id.
// A nil guard admits everything.
type MutationGuard struct {
	mu       sync.Mutex
	inFlight map[domain.EventID]struct{}
}

// NewMutationGuard returns an empty guard. Share one guard between all
// controllers that mutate the same store.
func NewMutationGuard() *MutationGuard {
	return &MutationGuard{inFlight: make(map[domain.EventID]struct{})}
}

// TryAcquire marks id as in flight. It returns false if id is already held.
func (g *MutationGuard) TryAcquire(id domain.EventID) bool {
	if g == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[id]; busy {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// Release clears id.
func (g *MutationGuard) Release(id domain.EventID) {
	if g == nil {
		return
	}
	g.mu.Lock()
	delete(g.inFlight, id)
	g.mu.Unlock()
}
