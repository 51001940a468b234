// Package subgraph implements the unit of distributable work: a small
// computation graph with lineage and an affinity value that governs which
// other subgraphs it can connect with.
package subgraph

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/pkg/models"
)

// ConnectThreshold is the maximum affinity difference at which two
// subgraphs can connect.
const ConnectThreshold = 0.3

// Subgraph is an addressable fragment of decomposed work. The node list is
// guarded by a reader-writer lock; a subgraph is owned by at most one
// tornado at a time, but its handle may be read during a transfer.
type Subgraph struct {
	// ID is the unique identifier for this subgraph.
	ID uuid.UUID
	// Parent is the id of the subgraph this one was split from, or
	// uuid.Nil for top-level subgraphs.
	Parent uuid.UUID
	// Children lists the ids of subgraphs produced by Split.
	Children []uuid.UUID
	// Strength is the affinity value in [0,1). It is set at creation and
	// changes only when two subgraphs merge.
	Strength float64

	mu    sync.RWMutex
	nodes []models.ComputeNode
	rng   *rand.Rand
}

// New creates an empty subgraph with a fresh id and a random affinity drawn
// from rng.
func New(rng *rand.Rand) *Subgraph {
	return &Subgraph{
		ID:       uuid.New(),
		Strength: rng.Float64(),
		rng:      rng,
	}
}

// AddNode appends a compute node to the subgraph.
func (s *Subgraph) AddNode(node models.ComputeNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, node)
}

// Nodes returns a copy of the subgraph's compute nodes.
func (s *Subgraph) Nodes() []models.ComputeNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ComputeNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// NodeCount returns the number of compute nodes held.
func (s *Subgraph) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Split produces n child subgraphs. Each child records this subgraph as its
// parent and draws its own fresh affinity; this subgraph's child list grows
// by exactly n. Children start with empty node lists.
func (s *Subgraph) Split(n int) []*Subgraph {
	children := make([]*Subgraph, 0, n)
	for i := 0; i < n; i++ {
		child := New(s.rng)
		child.Parent = s.ID
		s.Children = append(s.Children, child.ID)
		children = append(children, child)
	}
	return children
}

// Merge copies all of other's compute nodes into this subgraph and sets the
// affinity to the arithmetic mean of the two. No compatibility check is
// performed; nodes are content-agnostic tags.
func (s *Subgraph) Merge(other *Subgraph) error {
	nodes := other.Nodes()

	s.mu.Lock()
	s.nodes = append(s.nodes, nodes...)
	s.mu.Unlock()

	s.Strength = (s.Strength + other.Strength) / 2
	return nil
}

// CanConnectWith reports whether this subgraph and other have compatible
// affinities. The predicate is symmetric and has no side effects.
func (s *Subgraph) CanConnectWith(other *Subgraph) bool {
	diff := s.Strength - other.Strength
	if diff < 0 {
		diff = -diff
	}
	return diff < ConnectThreshold
}
