package models

import "github.com/google/uuid"

// LayerType identifies the role of a model layer.
type LayerType string

const (
	// LayerEmbedding maps token ids to vectors.
	LayerEmbedding LayerType = "embedding"
	// LayerAttention computes self-attention.
	LayerAttention LayerType = "attention"
	// LayerFeedForward applies a position-wise feed-forward pass.
	LayerFeedForward LayerType = "feed_forward"
	// LayerOutput projects hidden states to vocabulary logits.
	LayerOutput LayerType = "output"
	// LayerCustom is a user-defined layer; the name lives in ModelLayer.Custom.
	LayerCustom LayerType = "custom"
)

// Valid returns true if the layer type is a known value.
func (t LayerType) Valid() bool {
	switch t {
	case LayerEmbedding, LayerAttention, LayerFeedForward, LayerOutput, LayerCustom:
		return true
	default:
		return false
	}
}

// ModelLayer describes one layer of a language model to be decomposed.
type ModelLayer struct {
	// ID is the unique identifier for this layer.
	ID uuid.UUID `json:"id" yaml:"id"`
	// Type is the layer's role.
	Type LayerType `json:"type" yaml:"type"`
	// Custom is the layer name when Type is LayerCustom.
	Custom string `json:"custom,omitempty" yaml:"custom,omitempty"`
	// Parameters is a simplified named-parameter representation.
	Parameters map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	// InputSize is the declared input width.
	InputSize int `json:"input_size" yaml:"input_size"`
	// OutputSize is the declared output width.
	OutputSize int `json:"output_size" yaml:"output_size"`
	// Dependencies lists ids of layers that must run before this one.
	Dependencies []uuid.UUID `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Name returns the display name for the layer: the custom name for custom
// layers, the type otherwise.
func (l ModelLayer) Name() string {
	if l.Type == LayerCustom && l.Custom != "" {
		return l.Custom
	}
	return string(l.Type)
}
