package swarm

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/internal/subgraph"
)

// Geometry ranges for freshly spawned tornadoes. These are cosmetic swarm
// dynamics, not tunables.
const (
	minRadius, maxRadius     = 5.0, 20.0
	minVelocity, maxVelocity = 0.5, 2.0
	minHeight, maxHeight     = 10.0, 50.0
)

// Tornado is a container that holds subgraphs and lets them interact. The
// subgraph map is guarded by a reader-writer lock: SweepUp and Release take
// write access, Spin scans under read access.
type Tornado struct {
	// ID is the unique identifier for this tornado.
	ID uuid.UUID
	// Radius is the tornado's reach.
	Radius float64
	// AngularVelocity is how fast the tornado spins.
	AngularVelocity float64
	// Height is the tornado's vertical extent.
	Height float64

	// eye is the tornado's center, perturbed on every simulation step.
	eye Vec3

	mu        sync.RWMutex
	subgraphs map[uuid.UUID]*subgraph.Subgraph

	emitter *EventEmitter
}

// NewTornado creates a tornado at the given position with geometry drawn
// from rng. The emitter may be nil.
func NewTornado(position Vec3, rng *rand.Rand, emitter *EventEmitter) *Tornado {
	return &Tornado{
		ID:              uuid.New(),
		eye:             position,
		Radius:          minRadius + rng.Float64()*(maxRadius-minRadius),
		AngularVelocity: minVelocity + rng.Float64()*(maxVelocity-minVelocity),
		Height:          minHeight + rng.Float64()*(maxHeight-minHeight),
		subgraphs:       make(map[uuid.UUID]*subgraph.Subgraph),
		emitter:         emitter,
	}
}

// Eye returns the tornado's current center.
func (t *Tornado) Eye() Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.eye
}

// SweepUp ingests a subgraph into the tornado. Re-sweeping an id the
// tornado already holds overwrites the previous entry.
func (t *Tornado) SweepUp(sg *subgraph.Subgraph) {
	t.mu.Lock()
	t.subgraphs[sg.ID] = sg
	t.mu.Unlock()

	debugLog("[tornado %s] swept up subgraph %s", shortID(t.ID), shortID(sg.ID))
	t.emitter.Emit(Event{
		Type:       EventSubgraphSwept,
		TornadoID:  t.ID,
		SubgraphID: sg.ID,
	})
}

// Spin scans every unordered pair of held subgraphs and reports the pairs
// whose affinities are compatible. Interaction is observation only: no
// merge happens here. Returns the number of connecting pairs. A tornado
// holding fewer than two subgraphs does nothing.
func (t *Tornado) Spin() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.subgraphs) < 2 {
		return 0
	}

	ids := make([]uuid.UUID, 0, len(t.subgraphs))
	for id := range t.subgraphs {
		ids = append(ids, id)
	}

	var connections int
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a := t.subgraphs[ids[i]]
			b := t.subgraphs[ids[j]]
			if a.CanConnectWith(b) {
				connections++
				debugLog("[tornado %s] subgraphs %s and %s connecting", shortID(t.ID), shortID(ids[i]), shortID(ids[j]))
				t.emitter.Emit(Event{
					Type:       EventSubgraphsConnected,
					TornadoID:  t.ID,
					SubgraphID: ids[i],
					OtherID:    ids[j],
				})
			}
		}
	}
	return connections
}

// Release evicts up to count subgraphs and returns them, transferring
// ownership to the caller. Which subgraphs leave is map-iteration order,
// i.e. unspecified; callers must not depend on it. Returns fewer than count
// if the tornado holds fewer.
func (t *Tornado) Release(count int) []*subgraph.Subgraph {
	t.mu.Lock()
	released := make([]*subgraph.Subgraph, 0, count)
	for id, sg := range t.subgraphs {
		if len(released) >= count {
			break
		}
		delete(t.subgraphs, id)
		released = append(released, sg)
	}
	t.mu.Unlock()

	for _, sg := range released {
		debugLog("[tornado %s] released subgraph %s", shortID(t.ID), shortID(sg.ID))
		t.emitter.Emit(Event{
			Type:       EventSubgraphReleased,
			TornadoID:  t.ID,
			SubgraphID: sg.ID,
		})
	}
	return released
}

// Len returns the number of subgraphs currently held.
func (t *Tornado) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subgraphs)
}

// drift perturbs the tornado's eye. The magnitude is cosmetic; nothing
// depends on the eye's trajectory.
func (t *Tornado) drift(dt float64, dx, dy float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eye.X += dx * dt
	t.eye.Y += dy * dt
}

// shortID returns the first 8 characters of a uuid for log lines.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
