// Package processor drives the prompt lifecycle through the tornado swarm:
// fragment, distribute round-robin, advance the simulation, and collect the
// assembled output.
package processor

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/internal/decompose"
	"github.com/wingbeat/wingbeat/internal/state"
	"github.com/wingbeat/wingbeat/internal/subgraph"
	"github.com/wingbeat/wingbeat/internal/swarm"
	"github.com/wingbeat/wingbeat/pkg/models"
)

// ErrNotFound indicates the prompt id is unknown or was removed.
var ErrNotFound = errors.New("prompt not found")

// DefaultTornadoCount is how many tornadoes are spawned when a prompt is
// distributed into an empty swarm.
const DefaultTornadoCount = 3

// ActivePrompt tracks one prompt moving through the swarm.
type ActivePrompt struct {
	// ID is the prompt's unique identifier.
	ID uuid.UUID
	// Content is the original prompt text.
	Content string
	// Origin is where the prompt entered the swarm.
	Origin swarm.Vec3
	// Status is the prompt's lifecycle state.
	Status models.PromptStatus
	// Fragments are the prompt's pieces, in original order.
	Fragments []models.Fragment
	// Output is the assembled result, cached once collected.
	Output string
	// SubmittedAt is when the prompt entered the swarm.
	SubmittedAt time.Time
}

// PromptProcessor orchestrates prompts through the tornado swarm. The
// active-prompt map is guarded by a reader-writer lock; multiple in-flight
// prompts may be submitted, advanced, and collected concurrently.
type PromptProcessor struct {
	swarm *swarm.TornadoSwarm

	mu     sync.RWMutex
	active map[uuid.UUID]*ActivePrompt

	// randMu guards rng across concurrent submits.
	randMu sync.Mutex
	rng    *rand.Rand

	store   *state.DB
	emitter *swarm.EventEmitter
	logger  *swarm.DebugLogger
}

// Option configures a PromptProcessor.
type Option func(*PromptProcessor)

// WithStore attaches a state database. Submitted prompts and collected
// outputs are persisted to it; persistence failures are logged, never
// surfaced to callers.
func WithStore(db *state.DB) Option {
	return func(p *PromptProcessor) {
		p.store = db
	}
}

// WithEmitter attaches an event emitter for prompt lifecycle events.
func WithEmitter(e *swarm.EventEmitter) Option {
	return func(p *PromptProcessor) {
		p.emitter = e
	}
}

// WithLogger attaches a debug logger.
func WithLogger(l *swarm.DebugLogger) Option {
	return func(p *PromptProcessor) {
		p.logger = l
	}
}

// New creates a PromptProcessor over the given swarm. All randomness
// (fragment run lengths, subgraph affinities) comes from rng.
func New(sw *swarm.TornadoSwarm, rng *rand.Rand, opts ...Option) *PromptProcessor {
	p := &PromptProcessor{
		swarm:  sw,
		active: make(map[uuid.UUID]*ActivePrompt),
		rng:    rng,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SendPrompt fragments a prompt and distributes the fragments round-robin
// across the swarm, spawning default tornadoes if the swarm is empty.
// It returns the prompt id immediately; interaction happens on subsequent
// ProcessStep calls.
func (p *PromptProcessor) SendPrompt(prompt string) uuid.UUID {
	promptID := uuid.New()

	p.randMu.Lock()
	fragments := decompose.FragmentPrompt(prompt, p.rng)
	p.randMu.Unlock()

	p.logger.Log("[processor] prompt %s: %q fragmented into %d pieces", short(promptID), prompt, len(fragments))

	active := &ActivePrompt{
		ID:          promptID,
		Content:     prompt,
		Origin:      swarm.NewVec3(0, 0, 0),
		Status:      models.PromptSent,
		Fragments:   fragments,
		SubmittedAt: time.Now(),
	}

	p.mu.Lock()
	p.active[promptID] = active
	p.mu.Unlock()

	p.distribute(active)

	p.mu.Lock()
	active.Status = models.PromptInWhirlwind
	p.mu.Unlock()

	p.persist(active)
	p.emitter.Emit(swarm.Event{
		Type:     swarm.EventPromptSent,
		PromptID: promptID,
		Message:  prompt,
	})

	return promptID
}

// distribute creates one subgraph per fragment and sweeps them into
// tornadoes in round-robin order. An empty swarm is auto-healed by spawning
// DefaultTornadoCount tornadoes at fixed offsets.
func (p *PromptProcessor) distribute(active *ActivePrompt) {
	if p.swarm.Len() == 0 {
		for i := 0; i < DefaultTornadoCount; i++ {
			p.swarm.Spawn(swarm.NewVec3(float64(i)*10, float64(i)*5, 0))
		}
	}

	tornadoes := p.swarm.Tornadoes()
	for i := range active.Fragments {
		p.randMu.Lock()
		sg := subgraph.New(p.rng)
		p.randMu.Unlock()

		sg.AddNode(models.NewComputeNode(models.Process(active.Fragments[i].Content), nil))
		active.Fragments[i].SubgraphID = sg.ID

		tornadoes[i%len(tornadoes)].SweepUp(sg)
	}

	p.logger.Log("[processor] prompt %s: %d fragments swept into %d tornadoes", short(active.ID), len(active.Fragments), len(tornadoes))
}

// ProcessStep advances the whole swarm by dt. It is not scoped to one
// prompt; every in-flight prompt's fragments interact during the step.
// Returns the number of subgraph connections observed.
func (p *PromptProcessor) ProcessStep(dt float64) int {
	connections := p.swarm.SimulateStep(dt)

	p.mu.Lock()
	for _, active := range p.active {
		if active.Status == models.PromptInWhirlwind {
			active.Status = models.PromptSpinning
		}
	}
	p.mu.Unlock()

	return connections
}

// Collect assembles and returns the final output for a prompt. The first
// call transitions the prompt through assembling to complete; repeat calls
// return the cached output until Remove is called. Unknown ids return
// ErrNotFound.
func (p *PromptProcessor) Collect(promptID uuid.UUID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	active, ok := p.active[promptID]
	if !ok {
		return "", fmt.Errorf("collect %s: %w", short(promptID), ErrNotFound)
	}

	if active.Status == models.PromptComplete {
		return active.Output, nil
	}

	active.Status = models.PromptAssembling
	p.logger.Log("[processor] prompt %s: assembling results", short(promptID))

	output := strings.ToUpper(active.Content)
	for i := range active.Fragments {
		active.Fragments[i].Processed = true
	}

	active.Output = output
	active.Status = models.PromptComplete

	if p.store != nil {
		if err := p.store.CompletePrompt(promptID.String(), output); err != nil {
			log.Printf("[processor] persist output for %s: %v", short(promptID), err)
		}
	}
	p.emitter.Emit(swarm.Event{
		Type:     swarm.EventPromptComplete,
		PromptID: promptID,
		Message:  output,
	})

	return output, nil
}

// Status returns the lifecycle state of a prompt.
func (p *PromptProcessor) Status(promptID uuid.UUID) (models.PromptStatus, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	active, ok := p.active[promptID]
	if !ok {
		return "", fmt.Errorf("status %s: %w", short(promptID), ErrNotFound)
	}
	return active.Status, nil
}

// Remove drops a prompt from the active map and the store. After Remove,
// Collect on the id returns ErrNotFound.
func (p *PromptProcessor) Remove(promptID uuid.UUID) error {
	p.mu.Lock()
	_, ok := p.active[promptID]
	delete(p.active, promptID)
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("remove %s: %w", short(promptID), ErrNotFound)
	}
	if p.store != nil {
		if err := p.store.RemovePrompt(promptID.String()); err != nil && !errors.Is(err, state.ErrNotFound) {
			log.Printf("[processor] remove prompt %s from store: %v", short(promptID), err)
		}
	}
	return nil
}

// ActiveCount returns the number of prompts in the active map, including
// completed-but-not-removed ones.
func (p *PromptProcessor) ActiveCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.active)
}

// persist writes the prompt's current record to the store, if one is set.
func (p *PromptProcessor) persist(active *ActivePrompt) {
	if p.store == nil {
		return
	}

	p.mu.RLock()
	rec := state.PromptRecord{
		ID:            active.ID.String(),
		Content:       active.Content,
		Status:        active.Status,
		Output:        active.Output,
		FragmentCount: len(active.Fragments),
		CreatedAt:     active.SubmittedAt,
	}
	p.mu.RUnlock()

	if err := p.store.SavePrompt(rec); err != nil {
		log.Printf("[processor] persist prompt %s: %v", short(active.ID), err)
	}
}

// short returns the first 8 characters of a uuid for log lines.
func short(id uuid.UUID) string {
	return id.String()[:8]
}
