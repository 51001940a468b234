// Package decompose turns a task description (a layered model or a text
// prompt) into an ordered sequence of subgraphs, and reintegrates their
// results into final output.
package decompose

import "fmt"

// StrategyKind identifies a decomposition strategy.
type StrategyKind string

const (
	// KindLayerWise yields one subgraph per layer.
	KindLayerWise StrategyKind = "layer_wise"
	// KindAttentionHeads splits attention layers into one subgraph per head.
	KindAttentionHeads StrategyKind = "attention_heads"
	// KindTokenWise splits every layer into a fixed number of token chunks.
	KindTokenWise StrategyKind = "token_wise"
)

// Default split factors, matching the sample model's shape.
const (
	// DefaultHeads is the attention head count when none is given.
	DefaultHeads = 8
	// DefaultChunks is the token chunk count when none is given.
	DefaultChunks = 4
)

// Strategy selects how layers are split into subgraphs. The variant set is
// closed; N carries the head or chunk count for the strategies that take one.
type Strategy struct {
	Kind StrategyKind
	N    int
}

// LayerWise returns the one-subgraph-per-layer strategy.
func LayerWise() Strategy {
	return Strategy{Kind: KindLayerWise}
}

// AttentionHeads returns the strategy that splits attention layers into h
// head subgraphs. Non-attention layers yield one subgraph each.
func AttentionHeads(h int) Strategy {
	return Strategy{Kind: KindAttentionHeads, N: h}
}

// TokenWise returns the strategy that splits every layer into k token-chunk
// subgraphs regardless of layer type.
func TokenWise(k int) Strategy {
	return Strategy{Kind: KindTokenWise, N: k}
}

// ParseStrategy maps a CLI strategy name to a Strategy with default factors.
func ParseStrategy(name string) (Strategy, error) {
	switch StrategyKind(name) {
	case KindLayerWise:
		return LayerWise(), nil
	case KindAttentionHeads:
		return AttentionHeads(DefaultHeads), nil
	case KindTokenWise:
		return TokenWise(DefaultChunks), nil
	default:
		return Strategy{}, fmt.Errorf("unknown decomposition strategy %q", name)
	}
}

// String returns the strategy's CLI name.
func (s Strategy) String() string {
	return string(s.Kind)
}
