package swarm

import (
	"math/rand"
	"sync"
)

// TornadoSwarm manages the pool of tornadoes. The sequence is append-only
// and keeps insertion order; round-robin distribution relies on that order
// staying stable between a distribution pass and collection.
type TornadoSwarm struct {
	mu        sync.RWMutex
	tornadoes []*Tornado

	// randMu guards rng; geometry draws and drift perturbations may come
	// from concurrently advancing callers.
	randMu sync.Mutex
	rng    *rand.Rand

	emitter *EventEmitter
}

// Option configures a TornadoSwarm.
type Option func(*TornadoSwarm)

// WithEmitter attaches an event emitter to the swarm. Spawned tornadoes
// inherit it.
func WithEmitter(e *EventEmitter) Option {
	return func(s *TornadoSwarm) {
		s.emitter = e
	}
}

// NewSwarm creates an empty swarm. All randomness (tornado geometry, drift)
// is drawn from rng so tests can pin outcomes.
func NewSwarm(rng *rand.Rand, opts ...Option) *TornadoSwarm {
	s := &TornadoSwarm{rng: rng}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn appends a new tornado at the given position and returns it.
// The new tornado's index is the swarm's previous length.
func (s *TornadoSwarm) Spawn(position Vec3) *Tornado {
	s.randMu.Lock()
	t := NewTornado(position, s.rng, s.emitter)
	s.randMu.Unlock()

	s.mu.Lock()
	s.tornadoes = append(s.tornadoes, t)
	s.mu.Unlock()

	debugLog("[swarm] spawned tornado %s at (%.1f, %.1f, %.1f)", shortID(t.ID), position.X, position.Y, position.Z)
	s.emitter.Emit(Event{
		Type:      EventTornadoSpawned,
		TornadoID: t.ID,
	})
	return t
}

// SimulateStep advances every tornado by dt: each drifts a little and spins
// once. Tornadoes are visited in index order. Returns the total number of
// subgraph connections observed across the swarm this step.
func (s *TornadoSwarm) SimulateStep(dt float64) int {
	tornadoes := s.Tornadoes()

	var connections int
	for _, t := range tornadoes {
		s.randMu.Lock()
		dx := s.rng.Float64()*2 - 1
		dy := s.rng.Float64()*2 - 1
		s.randMu.Unlock()

		t.drift(dt, dx, dy)
		connections += t.Spin()
	}
	return connections
}

// Tornadoes returns a snapshot of the tornado sequence in insertion order.
func (s *TornadoSwarm) Tornadoes() []*Tornado {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Tornado, len(s.tornadoes))
	copy(out, s.tornadoes)
	return out
}

// Len returns the number of tornadoes in the swarm.
func (s *TornadoSwarm) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tornadoes)
}

// SubgraphCount returns the total number of subgraphs held across all
// tornadoes.
func (s *TornadoSwarm) SubgraphCount() int {
	var total int
	for _, t := range s.Tornadoes() {
		total += t.Len()
	}
	return total
}
