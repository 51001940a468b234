package inference

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/pkg/models"
)

// LayerResult is the output of running one layer.
type LayerResult struct {
	// Output is the layer's output tensor.
	Output *Tensor
	// Metadata describes what ran.
	Metadata map[string]string
}

// LayerOperation runs one model layer over an input tensor using the
// weights in a ModelWeights store.
type LayerOperation interface {
	// Execute runs the layer.
	Execute(input *Tensor, weights *ModelWeights) (*LayerResult, error)
	// LayerType returns the layer's role.
	LayerType() models.LayerType
	// LayerID returns the originating layer id.
	LayerID() uuid.UUID
}

// LayerConfig carries the sizing knobs for NewLayerOperation.
type LayerConfig struct {
	HiddenSize int
	VocabSize  int
	NumHeads   int
}

// Sizing defaults matching the sample model.
const (
	defaultHiddenSize = 768
	defaultVocabSize  = 51200
	defaultNumHeads   = 12
)

// NewLayerOperation builds the operation for a layer type. The variant set
// is closed; custom layers run as feed-forward.
func NewLayerOperation(layerType models.LayerType, layerID uuid.UUID, cfg LayerConfig) LayerOperation {
	if cfg.HiddenSize == 0 {
		cfg.HiddenSize = defaultHiddenSize
	}
	if cfg.VocabSize == 0 {
		cfg.VocabSize = defaultVocabSize
	}
	if cfg.NumHeads == 0 {
		cfg.NumHeads = defaultNumHeads
	}

	switch layerType {
	case models.LayerEmbedding:
		return &embeddingLayer{id: layerID, vocabSize: cfg.VocabSize, hiddenSize: cfg.HiddenSize}
	case models.LayerAttention:
		return &attentionLayer{id: layerID, hiddenSize: cfg.HiddenSize, numHeads: cfg.NumHeads}
	case models.LayerOutput:
		return &outputLayer{id: layerID, hiddenSize: cfg.HiddenSize, vocabSize: cfg.VocabSize}
	default: // feed-forward and custom
		return &feedForwardLayer{id: layerID, hiddenSize: cfg.HiddenSize}
	}
}

type embeddingLayer struct {
	id         uuid.UUID
	vocabSize  int
	hiddenSize int
}

func (l *embeddingLayer) Execute(input *Tensor, weights *ModelWeights) (*LayerResult, error) {
	embedding, ok := weights.Parameter("embedding.weight")
	if !ok {
		return nil, fmt.Errorf("embedding weights not found")
	}

	// Each input element is a token id; look up its embedding row.
	out := make([]float64, 0, len(input.Data)*l.hiddenSize)
	for _, tokenID := range input.Data {
		idx := int(tokenID) % l.vocabSize
		start := idx * l.hiddenSize
		end := start + l.hiddenSize
		if end <= len(embedding.Tensor.Data) {
			out = append(out, embedding.Tensor.Data[start:end]...)
		} else {
			out = append(out, make([]float64, l.hiddenSize)...)
		}
	}

	return &LayerResult{
		Output: NewTensor([]int{len(input.Data), l.hiddenSize}, out),
		Metadata: map[string]string{
			"operation":   "embedding",
			"vocab_size":  fmt.Sprint(l.vocabSize),
			"hidden_size": fmt.Sprint(l.hiddenSize),
		},
	}, nil
}

func (l *embeddingLayer) LayerType() models.LayerType { return models.LayerEmbedding }
func (l *embeddingLayer) LayerID() uuid.UUID          { return l.id }

type attentionLayer struct {
	id         uuid.UUID
	hiddenSize int
	numHeads   int
}

func (l *attentionLayer) Execute(input *Tensor, weights *ModelWeights) (*LayerResult, error) {
	names := []string{
		"attention.query.weight",
		"attention.key.weight",
		"attention.value.weight",
		"attention.output.weight",
	}
	params := make([]*Tensor, len(names))
	for i, name := range names {
		p, ok := weights.Parameter(name)
		if !ok {
			return nil, fmt.Errorf("%s not found", name)
		}
		params[i] = p.Tensor
	}

	query, err := input.MatMul(params[0])
	if err != nil {
		return nil, fmt.Errorf("query projection: %w", err)
	}
	key, err := input.MatMul(params[1])
	if err != nil {
		return nil, fmt.Errorf("key projection: %w", err)
	}
	value, err := input.MatMul(params[2])
	if err != nil {
		return nil, fmt.Errorf("value projection: %w", err)
	}

	scores, err := query.MatMul(key.Transpose())
	if err != nil {
		return nil, fmt.Errorf("attention scores: %w", err)
	}
	probs := scores.Softmax()
	attended, err := probs.MatMul(value)
	if err != nil {
		return nil, fmt.Errorf("attention output: %w", err)
	}

	output, err := attended.MatMul(params[3])
	if err != nil {
		return nil, fmt.Errorf("output projection: %w", err)
	}

	return &LayerResult{
		Output: output,
		Metadata: map[string]string{
			"operation":   "attention",
			"hidden_size": fmt.Sprint(l.hiddenSize),
			"num_heads":   fmt.Sprint(l.numHeads),
		},
	}, nil
}

func (l *attentionLayer) LayerType() models.LayerType { return models.LayerAttention }
func (l *attentionLayer) LayerID() uuid.UUID          { return l.id }

type feedForwardLayer struct {
	id         uuid.UUID
	hiddenSize int
}

func (l *feedForwardLayer) Execute(input *Tensor, weights *ModelWeights) (*LayerResult, error) {
	intermediate, ok := weights.Parameter("ffn.intermediate.weight")
	if !ok {
		return nil, fmt.Errorf("ffn intermediate weights not found")
	}
	outWeight, ok := weights.Parameter("ffn.output.weight")
	if !ok {
		return nil, fmt.Errorf("ffn output weights not found")
	}

	hidden, err := input.MatMul(intermediate.Tensor)
	if err != nil {
		return nil, fmt.Errorf("ffn intermediate: %w", err)
	}
	output, err := hidden.ReLU().MatMul(outWeight.Tensor)
	if err != nil {
		return nil, fmt.Errorf("ffn output: %w", err)
	}

	return &LayerResult{
		Output: output,
		Metadata: map[string]string{
			"operation":   "feedforward",
			"hidden_size": fmt.Sprint(l.hiddenSize),
		},
	}, nil
}

func (l *feedForwardLayer) LayerType() models.LayerType { return models.LayerFeedForward }
func (l *feedForwardLayer) LayerID() uuid.UUID          { return l.id }

type outputLayer struct {
	id         uuid.UUID
	hiddenSize int
	vocabSize  int
}

func (l *outputLayer) Execute(input *Tensor, weights *ModelWeights) (*LayerResult, error) {
	// The embedding matrix doubles as the output projection, tied weights.
	embedding, ok := weights.Parameter("embedding.weight")
	if !ok {
		return nil, fmt.Errorf("output projection weights not found")
	}

	logits, err := input.MatMul(embedding.Tensor.Transpose())
	if err != nil {
		return nil, fmt.Errorf("output projection: %w", err)
	}

	return &LayerResult{
		Output: logits,
		Metadata: map[string]string{
			"operation":   "output",
			"hidden_size": fmt.Sprint(l.hiddenSize),
			"vocab_size":  fmt.Sprint(l.vocabSize),
		},
	}, nil
}

func (l *outputLayer) LayerType() models.LayerType { return models.LayerOutput }
func (l *outputLayer) LayerID() uuid.UUID          { return l.id }
