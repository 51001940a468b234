package inference

import (
	"math/rand"

	"github.com/google/uuid"
)

// Parameter is one named weight tensor of a model.
type Parameter struct {
	// ID is the parameter's unique identifier.
	ID uuid.UUID
	// Name is the dotted parameter path, e.g. "attention.query.weight".
	Name string
	// Tensor holds the weight values.
	Tensor *Tensor
	// LayerID is the layer this parameter belongs to.
	LayerID uuid.UUID
}

// ModelWeights holds a model's parameters, addressable by name and by layer.
type ModelWeights struct {
	parameters      map[string]*Parameter
	layerParameters map[uuid.UUID][]string
}

// NewModelWeights creates an empty weight store.
func NewModelWeights() *ModelWeights {
	return &ModelWeights{
		parameters:      make(map[string]*Parameter),
		layerParameters: make(map[uuid.UUID][]string),
	}
}

// AddParameter registers a named tensor under a layer. Re-adding a name
// overwrites the previous parameter.
func (w *ModelWeights) AddParameter(name string, tensor *Tensor, layerID uuid.UUID) {
	w.parameters[name] = &Parameter{
		ID:      uuid.New(),
		Name:    name,
		Tensor:  tensor,
		LayerID: layerID,
	}
	w.layerParameters[layerID] = append(w.layerParameters[layerID], name)
}

// Parameter returns the parameter with the given name.
func (w *ModelWeights) Parameter(name string) (*Parameter, bool) {
	p, ok := w.parameters[name]
	return p, ok
}

// LayerParameters returns all parameters registered for a layer.
func (w *ModelWeights) LayerParameters(layerID uuid.UUID) []*Parameter {
	names := w.layerParameters[layerID]
	out := make([]*Parameter, 0, len(names))
	for _, name := range names {
		if p, ok := w.parameters[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ParameterCount returns the total number of weight elements in the store.
func (w *ModelWeights) ParameterCount() int {
	var total int
	for _, p := range w.parameters {
		total += p.Tensor.Size()
	}
	return total
}

// InitTransformerLayer fills the store with randomly initialized weights
// for a typical transformer layer: embedding, attention projections,
// feed-forward, and layer norms.
func (w *ModelWeights) InitTransformerLayer(rng *rand.Rand, layerID uuid.UUID, hiddenSize, vocabSize int) {
	w.AddParameter("embedding.weight", Random(rng, vocabSize, hiddenSize), layerID)

	w.AddParameter("attention.query.weight", Random(rng, hiddenSize, hiddenSize), layerID)
	w.AddParameter("attention.key.weight", Random(rng, hiddenSize, hiddenSize), layerID)
	w.AddParameter("attention.value.weight", Random(rng, hiddenSize, hiddenSize), layerID)
	w.AddParameter("attention.output.weight", Random(rng, hiddenSize, hiddenSize), layerID)

	w.AddParameter("ffn.intermediate.weight", Random(rng, hiddenSize, hiddenSize*4), layerID)
	w.AddParameter("ffn.output.weight", Random(rng, hiddenSize*4, hiddenSize), layerID)

	w.AddParameter("attention_norm.weight", Ones(hiddenSize), layerID)
	w.AddParameter("ffn_norm.weight", Ones(hiddenSize), layerID)
}
