// Package models defines the shared data types for the wingbeat swarm:
// compute nodes, model layers, and prompt fragments.
package models

import "github.com/google/uuid"

// OperationKind identifies the kind of work a compute node performs.
type OperationKind string

const (
	// OpTransform applies a named transformation to the node's input.
	OpTransform OperationKind = "transform"
	// OpSplit divides the node's input into smaller pieces.
	OpSplit OperationKind = "split"
	// OpMerge combines multiple inputs into one.
	OpMerge OperationKind = "merge"
	// OpProcess runs a named processing step.
	OpProcess OperationKind = "process"
	// OpFilter drops input that fails a named predicate.
	OpFilter OperationKind = "filter"
	// OpAggregate reduces inputs to a summary value.
	OpAggregate OperationKind = "aggregate"
)

// Valid returns true if the kind is a known value.
func (k OperationKind) Valid() bool {
	switch k {
	case OpTransform, OpSplit, OpMerge, OpProcess, OpFilter, OpAggregate:
		return true
	default:
		return false
	}
}

// Operation is a compute node's operation tag. The variant set is closed;
// Arg carries the payload for the kinds that take one (transform, process,
// filter) and is empty for the rest.
type Operation struct {
	// Kind is the operation variant.
	Kind OperationKind `json:"kind"`
	// Arg is the free-form payload for parameterized kinds.
	Arg string `json:"arg,omitempty"`
}

// Process returns a process operation with the given payload.
func Process(arg string) Operation {
	return Operation{Kind: OpProcess, Arg: arg}
}

// Transform returns a transform operation with the given payload.
func Transform(arg string) Operation {
	return Operation{Kind: OpTransform, Arg: arg}
}

// NodeState represents the lifecycle state of a compute node.
type NodeState string

const (
	// NodeIdle indicates the node has not started.
	NodeIdle NodeState = "idle"
	// NodeProcessing indicates the node is computing.
	NodeProcessing NodeState = "processing"
	// NodeSplitting indicates the node is being divided.
	NodeSplitting NodeState = "splitting"
	// NodeMerging indicates the node is being combined with another.
	NodeMerging NodeState = "merging"
	// NodeComplete indicates the node finished its work.
	NodeComplete NodeState = "complete"
)

// Valid returns true if the state is a known value.
func (s NodeState) Valid() bool {
	switch s {
	case NodeIdle, NodeProcessing, NodeSplitting, NodeMerging, NodeComplete:
		return true
	default:
		return false
	}
}

// ComputeNode is a single unit of computation inside a subgraph.
type ComputeNode struct {
	// ID is the unique identifier for this node.
	ID uuid.UUID `json:"id"`
	// Operation is what this node does.
	Operation Operation `json:"operation"`
	// State is the current lifecycle state.
	State NodeState `json:"state"`
	// Metadata carries free-form string annotations (layer ids, chunk
	// indices, head counts).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewComputeNode creates an idle compute node with a fresh id.
func NewComputeNode(op Operation, metadata map[string]string) ComputeNode {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return ComputeNode{
		ID:        uuid.New(),
		Operation: op,
		State:     NodeIdle,
		Metadata:  metadata,
	}
}
