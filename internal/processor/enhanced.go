package processor

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/internal/decompose"
	"github.com/wingbeat/wingbeat/internal/inference"
	"github.com/wingbeat/wingbeat/internal/subgraph"
	"github.com/wingbeat/wingbeat/internal/swarm"
	"github.com/wingbeat/wingbeat/pkg/models"
)

// EnhancedProcessor integrates model decomposition with swarm processing:
// it splits a layered model into subgraphs, distributes them across the
// tornadoes, advances the simulation, and reintegrates per-subgraph results
// in model order.
type EnhancedProcessor struct {
	swarm      *swarm.TornadoSwarm
	decomposer *decompose.ModelDecomposer

	randMu sync.Mutex
	rng    *rand.Rand

	logger *swarm.DebugLogger
}

// NewEnhanced creates an EnhancedProcessor over the given swarm and
// decomposer.
func NewEnhanced(sw *swarm.TornadoSwarm, dec *decompose.ModelDecomposer, rng *rand.Rand) *EnhancedProcessor {
	return &EnhancedProcessor{
		swarm:      sw,
		decomposer: dec,
		rng:        rng,
	}
}

// SetLogger attaches a debug logger.
func (p *EnhancedProcessor) SetLogger(l *swarm.DebugLogger) {
	p.logger = l
}

// ProcessModel decomposes the model with the given strategy, runs the
// subgraphs through the swarm for steps simulation steps, and returns the
// reintegrated output: one simulated per-subgraph result for the prompt,
// ordered by (layer, chunk/head).
func (p *EnhancedProcessor) ProcessModel(strategy decompose.Strategy, prompt string, steps int, dt float64) (string, error) {
	p.randMu.Lock()
	sgs := p.decomposer.Decompose(strategy, p.rng)
	p.randMu.Unlock()

	p.logger.Log("[enhanced] decomposed model into %d subgraphs (%s)", len(sgs), strategy)

	p.distribute(sgs)

	for i := 0; i < steps; i++ {
		p.swarm.SimulateStep(dt)
	}

	results := make(map[uuid.UUID]string, len(sgs))
	for _, sg := range sgs {
		result, err := p.simulateSubgraph(sg, prompt)
		if err != nil {
			return "", err
		}
		results[sg.ID] = result
	}

	p.releaseAll()

	return p.decomposer.Reintegrate(results), nil
}

// RunDistributedInference decomposes the model layer-wise, distributes it,
// and pushes the tokenized prompt through each layer's real (toy) tensor
// operation, reporting one summary line per layer in model order.
func (p *EnhancedProcessor) RunDistributedInference(prompt string, weights *inference.ModelWeights, tok *inference.SimpleTokenizer, cfg inference.LayerConfig) (string, error) {
	p.randMu.Lock()
	sgs := p.decomposer.Decompose(decompose.LayerWise(), p.rng)
	p.randMu.Unlock()

	p.distribute(sgs)
	p.swarm.SimulateStep(0.1)

	tokens, err := tok.Encode(prompt)
	if err != nil {
		return "", fmt.Errorf("tokenize prompt: %w", err)
	}
	ids := make([]float64, len(tokens))
	for i, t := range tokens {
		ids[i] = float64(t.ID)
	}
	current := inference.NewTensor([]int{len(ids)}, ids)

	results := make(map[uuid.UUID]string, len(sgs))
	layers := p.decomposer.Layers()
	for i, sg := range sgs {
		layer := layers[i]
		op := inference.NewLayerOperation(layer.Type, layer.ID, cfg)

		res, err := op.Execute(current, weights)
		if err != nil {
			return "", fmt.Errorf("layer %d (%s): %w", i, layer.Name(), err)
		}
		current = res.Output
		results[sg.ID] = fmt.Sprintf("%s -> %v", res.Metadata["operation"], res.Output.Shape)
	}

	p.releaseAll()

	return p.decomposer.Reintegrate(results), nil
}

// distribute sweeps subgraphs into tornadoes round-robin, auto-healing an
// empty swarm with default tornadoes.
func (p *EnhancedProcessor) distribute(sgs []*subgraph.Subgraph) {
	if p.swarm.Len() == 0 {
		for i := 0; i < DefaultTornadoCount; i++ {
			p.swarm.Spawn(swarm.NewVec3(float64(i)*10, float64(i)*5, 0))
		}
	}

	tornadoes := p.swarm.Tornadoes()
	for i, sg := range sgs {
		tornadoes[i%len(tornadoes)].SweepUp(sg)
	}
}

// releaseAll drains every tornado, returning ownership of all held
// subgraphs to the processor.
func (p *EnhancedProcessor) releaseAll() {
	for _, t := range p.swarm.Tornadoes() {
		t.Release(t.Len())
	}
}

// simulateSubgraph produces a simulated result for one subgraph based on
// its originating layer's type.
func (p *EnhancedProcessor) simulateSubgraph(sg *subgraph.Subgraph, prompt string) (string, error) {
	layerID, ok := p.decomposer.LayerFor(sg.ID)
	if !ok {
		return "", fmt.Errorf("subgraph %s has no originating layer", short(sg.ID))
	}

	var layerType models.LayerType
	for _, layer := range p.decomposer.Layers() {
		if layer.ID == layerID {
			layerType = layer.Type
			break
		}
	}

	switch layerType {
	case models.LayerEmbedding:
		return fmt.Sprintf("[embedded: %s]", prompt), nil
	case models.LayerAttention:
		return fmt.Sprintf("[attended: %s]", prompt), nil
	case models.LayerFeedForward:
		return fmt.Sprintf("[processed: %s]", prompt), nil
	case models.LayerOutput:
		return fmt.Sprintf("[output: %s]", prompt), nil
	default:
		return fmt.Sprintf("[custom: %s]", prompt), nil
	}
}
