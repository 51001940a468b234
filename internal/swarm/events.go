package swarm

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of swarm event.
type EventType string

const (
	// EventTornadoSpawned indicates a new tornado joined the swarm.
	EventTornadoSpawned EventType = "tornado_spawned"
	// EventSubgraphSwept indicates a tornado ingested a subgraph.
	EventSubgraphSwept EventType = "subgraph_swept"
	// EventSubgraphsConnected indicates two subgraphs inside one tornado
	// satisfied the affinity predicate during a spin.
	EventSubgraphsConnected EventType = "subgraphs_connected"
	// EventSubgraphReleased indicates a tornado evicted a subgraph.
	EventSubgraphReleased EventType = "subgraph_released"
	// EventPromptSent indicates a prompt entered the swarm.
	EventPromptSent EventType = "prompt_sent"
	// EventPromptComplete indicates a prompt's output was assembled.
	EventPromptComplete EventType = "prompt_complete"
)

// Event represents an observable swarm occurrence. Events feed the CLI
// presentation and tests; nothing in the core depends on their delivery.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TornadoID is the id of the related tornado, if applicable.
	TornadoID uuid.UUID
	// SubgraphID is the id of the related subgraph, if applicable.
	SubgraphID uuid.UUID
	// OtherID is the second subgraph id for connection events.
	OtherID uuid.UUID
	// PromptID is the id of the related prompt, if applicable.
	PromptID uuid.UUID
	// Message provides additional context about the event.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventEmitter provides thread-safe, non-blocking event emission for the
// swarm. A nil emitter is valid and drops everything silently.
type EventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEventEmitter creates an EventEmitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{
		events: make(chan Event, bufferSize),
	}
}

// Emit sends an event to the events channel without blocking the swarm.
// If the channel is full the event is dropped and counted.
func (e *EventEmitter) Emit(event Event) {
	if e == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case e.events <- event:
	default:
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			log.Printf("[swarm] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *EventEmitter) DroppedCount() uint64 {
	if e == nil {
		return 0
	}
	return e.droppedCount.Load()
}

// Events returns a read-only channel of events for subscribers.
func (e *EventEmitter) Events() <-chan Event {
	if e == nil {
		return nil
	}
	return e.events
}

// Close closes the events channel. Call only after all emitters are done.
func (e *EventEmitter) Close() {
	if e != nil {
		close(e.events)
	}
}
