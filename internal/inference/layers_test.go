package inference

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/pkg/models"
)

func testWeights(t *testing.T, hidden, vocab int) (*ModelWeights, uuid.UUID) {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	layerID := uuid.New()
	w := NewModelWeights()
	w.InitTransformerLayer(rng, layerID, hidden, vocab)
	return w, layerID
}

func TestInitTransformerLayer_ParameterCount(t *testing.T) {
	w, layerID := testWeights(t, 4, 10)

	// embedding 10*4 + four attention 4*4 + ffn 4*16 + 16*4 + two norms 4.
	want := 40 + 4*16 + 64 + 64 + 8
	if got := w.ParameterCount(); got != want {
		t.Errorf("ParameterCount = %d, want %d", got, want)
	}
	if got := len(w.LayerParameters(layerID)); got != 9 {
		t.Errorf("layer has %d parameters, want 9", got)
	}
}

func TestEmbeddingLayer(t *testing.T) {
	w, layerID := testWeights(t, 4, 10)
	op := NewLayerOperation(models.LayerEmbedding, layerID, LayerConfig{HiddenSize: 4, VocabSize: 10})

	input := NewTensor([]int{3}, []float64{1, 5, 12}) // 12 wraps to 2
	res, err := op.Execute(input, w)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Output.Shape[0] != 3 || res.Output.Shape[1] != 4 {
		t.Errorf("output shape = %v, want [3 4]", res.Output.Shape)
	}
	if res.Metadata["operation"] != "embedding" {
		t.Errorf("metadata operation = %s", res.Metadata["operation"])
	}
}

func TestAttentionLayer(t *testing.T) {
	w, layerID := testWeights(t, 4, 10)
	op := NewLayerOperation(models.LayerAttention, layerID, LayerConfig{HiddenSize: 4})

	input := Random(rand.New(rand.NewSource(5)), 3, 4)
	res, err := op.Execute(input, w)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Output.Shape[0] != 3 || res.Output.Shape[1] != 4 {
		t.Errorf("output shape = %v, want [3 4]", res.Output.Shape)
	}
}

func TestFeedForwardLayer(t *testing.T) {
	w, layerID := testWeights(t, 4, 10)
	op := NewLayerOperation(models.LayerFeedForward, layerID, LayerConfig{HiddenSize: 4})

	input := Random(rand.New(rand.NewSource(5)), 2, 4)
	res, err := op.Execute(input, w)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Output.Shape[0] != 2 || res.Output.Shape[1] != 4 {
		t.Errorf("output shape = %v, want [2 4]", res.Output.Shape)
	}
}

func TestOutputLayer_ProjectsToVocab(t *testing.T) {
	w, layerID := testWeights(t, 4, 10)
	op := NewLayerOperation(models.LayerOutput, layerID, LayerConfig{HiddenSize: 4, VocabSize: 10})

	input := Random(rand.New(rand.NewSource(5)), 2, 4)
	res, err := op.Execute(input, w)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Output.Shape[0] != 2 || res.Output.Shape[1] != 10 {
		t.Errorf("logits shape = %v, want [2 10]", res.Output.Shape)
	}
}

func TestLayerOperation_MissingWeights(t *testing.T) {
	empty := NewModelWeights()
	op := NewLayerOperation(models.LayerAttention, uuid.New(), LayerConfig{HiddenSize: 4})

	if _, err := op.Execute(Zeros(2, 4), empty); err == nil {
		t.Error("Execute without weights should fail")
	}
}

func TestCustomLayer_RunsAsFeedForward(t *testing.T) {
	op := NewLayerOperation(models.LayerCustom, uuid.New(), LayerConfig{HiddenSize: 4})
	if op.LayerType() != models.LayerFeedForward {
		t.Errorf("custom layer runs as %s, want feed_forward", op.LayerType())
	}
}
