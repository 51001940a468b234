package decompose

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/internal/subgraph"
	"github.com/wingbeat/wingbeat/pkg/models"
)

// sortKey orders subgraph results for reintegration. Layer index is the
// primary key, the chunk/head index within the layer the secondary one.
// A composite key has no ceiling on the sub index.
type sortKey struct {
	layer int
	sub   int
}

func (k sortKey) less(other sortKey) bool {
	if k.layer != other.layer {
		return k.layer < other.layer
	}
	return k.sub < other.sub
}

// ModelDecomposer splits a layered model into subgraphs and remembers, per
// produced subgraph, where in the model it came from. That record is the
// only hidden state; decomposition itself is a pure function of the layers
// and the strategy.
type ModelDecomposer struct {
	layers []models.ModelLayer
	// keys maps subgraph id to its reintegration position.
	keys map[uuid.UUID]sortKey
	// layerFor maps subgraph id back to the originating layer id.
	layerFor map[uuid.UUID]uuid.UUID
}

// NewModelDecomposer creates a decomposer over the given layers.
func NewModelDecomposer(layers []models.ModelLayer) *ModelDecomposer {
	return &ModelDecomposer{
		layers:   layers,
		keys:     make(map[uuid.UUID]sortKey),
		layerFor: make(map[uuid.UUID]uuid.UUID),
	}
}

// Layers returns the model layers this decomposer operates on.
func (d *ModelDecomposer) Layers() []models.ModelLayer {
	return d.layers
}

// Decompose produces subgraphs for the model according to the strategy.
// Each subgraph carries one compute node whose metadata records the layer
// and, where applicable, the head or chunk index. Subgraph affinities are
// drawn from rng.
func (d *ModelDecomposer) Decompose(strategy Strategy, rng *rand.Rand) []*subgraph.Subgraph {
	var out []*subgraph.Subgraph

	for layerIdx, layer := range d.layers {
		switch strategy.Kind {
		case KindAttentionHeads:
			if layer.Type == models.LayerAttention {
				heads := strategy.N
				if heads <= 0 {
					heads = DefaultHeads
				}
				for head := 0; head < heads; head++ {
					sg := d.newLayerSubgraph(rng, layer, layerIdx, head, models.Process(fmt.Sprintf("attention_head_%d", head)), map[string]string{
						"layer_id":   layer.ID.String(),
						"head_index": strconv.Itoa(head),
						"head_count": strconv.Itoa(heads),
					})
					out = append(out, sg)
				}
				continue
			}
			sg := d.newLayerSubgraph(rng, layer, layerIdx, 0, models.Process(layer.Name()), map[string]string{
				"layer_id": layer.ID.String(),
			})
			out = append(out, sg)

		case KindTokenWise:
			chunks := strategy.N
			if chunks <= 0 {
				chunks = DefaultChunks
			}
			for chunk := 0; chunk < chunks; chunk++ {
				sg := d.newLayerSubgraph(rng, layer, layerIdx, chunk, models.Process(fmt.Sprintf("%s_token_chunk_%d", layer.Name(), chunk)), map[string]string{
					"layer_id":     layer.ID.String(),
					"chunk_index":  strconv.Itoa(chunk),
					"total_chunks": strconv.Itoa(chunks),
				})
				out = append(out, sg)
			}

		default: // KindLayerWise
			sg := d.newLayerSubgraph(rng, layer, layerIdx, 0, models.Process(layer.Name()), map[string]string{
				"layer_id":    layer.ID.String(),
				"layer_type":  string(layer.Type),
				"input_size":  strconv.Itoa(layer.InputSize),
				"output_size": strconv.Itoa(layer.OutputSize),
			})
			out = append(out, sg)
		}
	}

	return out
}

// newLayerSubgraph builds one subgraph for a layer slice and records its
// reintegration key.
func (d *ModelDecomposer) newLayerSubgraph(rng *rand.Rand, layer models.ModelLayer, layerIdx, subIdx int, op models.Operation, metadata map[string]string) *subgraph.Subgraph {
	sg := subgraph.New(rng)
	sg.AddNode(models.NewComputeNode(op, metadata))
	d.keys[sg.ID] = sortKey{layer: layerIdx, sub: subIdx}
	d.layerFor[sg.ID] = layer.ID
	return sg
}

// LayerFor returns the id of the layer a subgraph was produced from.
func (d *ModelDecomposer) LayerFor(subgraphID uuid.UUID) (uuid.UUID, bool) {
	id, ok := d.layerFor[subgraphID]
	return id, ok
}

// Reintegrate combines per-subgraph results into final output, ordered by
// (layer index, chunk/head index) ascending. Results for subgraphs this
// decomposer did not produce are ignored.
func (d *ModelDecomposer) Reintegrate(results map[uuid.UUID]string) string {
	type keyed struct {
		key    sortKey
		result string
	}

	ordered := make([]keyed, 0, len(results))
	for sgID, result := range results {
		key, ok := d.keys[sgID]
		if !ok {
			continue
		}
		ordered = append(ordered, keyed{key: key, result: result})
	}

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key.less(ordered[j].key)
	})

	var combined string
	for i, kr := range ordered {
		if i > 0 {
			combined += " "
		}
		combined += kr.result
	}
	return combined
}

// SampleModel returns the simplified four-layer language model used by
// demos and tests: embedding, attention, feed-forward, and output, each
// depending on its predecessor.
func SampleModel() []models.ModelLayer {
	layers := []models.ModelLayer{
		{ID: uuid.New(), Type: models.LayerEmbedding, InputSize: 512, OutputSize: 768},
		{ID: uuid.New(), Type: models.LayerAttention, InputSize: 768, OutputSize: 768},
		{ID: uuid.New(), Type: models.LayerFeedForward, InputSize: 768, OutputSize: 768},
		// Output size is the vocabulary size.
		{ID: uuid.New(), Type: models.LayerOutput, InputSize: 768, OutputSize: 51200},
	}
	for i := 1; i < len(layers); i++ {
		layers[i].Dependencies = []uuid.UUID{layers[i-1].ID}
	}
	return layers
}
