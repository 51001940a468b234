package main

import (
	"fmt"
	"math/rand"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wingbeat/wingbeat/internal/config"
	"github.com/wingbeat/wingbeat/internal/decompose"
	"github.com/wingbeat/wingbeat/internal/inference"
	"github.com/wingbeat/wingbeat/internal/processor"
	"github.com/wingbeat/wingbeat/internal/swarm"
	"github.com/wingbeat/wingbeat/pkg/models"
)

var (
	inferStrategy    string
	inferHeads       int
	inferChunks      int
	inferModelPath   string
	inferSteps       int
	inferSeed        int64
	inferDistributed bool
	inferHidden      int
	inferVocab       int
)

var inferCmd = &cobra.Command{
	Use:   "infer <prompt>",
	Short: "Run a decomposed model over the swarm",
	Long: `Decompose a layered model into subgraphs, distribute them across the
tornado swarm, and reintegrate the per-layer results in model order.

Decomposition strategies (--strategy):
  - layer_wise:      one subgraph per layer (default)
  - attention_heads: attention layers split per head (--heads)
  - token_wise:      every layer split into chunks (--chunks)

By default the per-layer work is simulated. With --distributed the prompt
is tokenized and pushed through real toy transformer layers; --hidden and
--vocab size the weights, so keep them small.

A custom model can be supplied as a YAML file via --model; otherwise a
built-in four-layer sample model is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().StringVar(&inferStrategy, "strategy", "layer_wise", "Decomposition strategy: layer_wise, attention_heads, or token_wise")
	inferCmd.Flags().IntVar(&inferHeads, "heads", decompose.DefaultHeads, "Attention heads for the attention_heads strategy")
	inferCmd.Flags().IntVar(&inferChunks, "chunks", decompose.DefaultChunks, "Chunks per layer for the token_wise strategy")
	inferCmd.Flags().StringVar(&inferModelPath, "model", "", "Path to a YAML model definition (default: built-in sample model)")
	inferCmd.Flags().IntVar(&inferSteps, "steps", 2, "Number of simulation steps before reintegrating")
	inferCmd.Flags().Int64Var(&inferSeed, "seed", 0, "Random seed (0 for time-based)")
	inferCmd.Flags().BoolVar(&inferDistributed, "distributed", false, "Run real tensor operations instead of simulated results")
	inferCmd.Flags().IntVar(&inferHidden, "hidden", 64, "Hidden size for --distributed weights")
	inferCmd.Flags().IntVar(&inferVocab, "vocab", 512, "Vocabulary size for --distributed weights")
}

func runInfer(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	strategy, err := parseStrategyFlags()
	if err != nil {
		return err
	}

	layers, err := loadLayers()
	if err != nil {
		return err
	}

	rng := newRand(inferSeed, cfg)
	sw := swarm.NewSwarm(rng)
	dec := decompose.NewModelDecomposer(layers)
	p := processor.NewEnhanced(sw, dec, rng)

	fmt.Printf("%s decomposing %d-layer model (%s)\n",
		color.CyanString("▸"), len(layers), strategy)

	var output string
	if inferDistributed {
		output, err = runDistributed(p, layers, rng, prompt)
	} else {
		output, err = p.ProcessModel(strategy, prompt, inferSteps, cfg.Swarm.TickInterval.Seconds())
	}
	if err != nil {
		return fmt.Errorf("process model: %w", err)
	}

	fmt.Printf("%s %s\n", color.GreenString("✓"), output)
	return nil
}

// parseStrategyFlags resolves the strategy flag trio into a Strategy.
func parseStrategyFlags() (decompose.Strategy, error) {
	strategy, err := decompose.ParseStrategy(inferStrategy)
	if err != nil {
		return decompose.Strategy{}, err
	}
	switch strategy.Kind {
	case decompose.KindAttentionHeads:
		return decompose.AttentionHeads(inferHeads), nil
	case decompose.KindTokenWise:
		return decompose.TokenWise(inferChunks), nil
	default:
		return strategy, nil
	}
}

// loadLayers reads the model file if one was given, falling back to the
// built-in sample model.
func loadLayers() ([]models.ModelLayer, error) {
	if inferModelPath == "" {
		return decompose.SampleModel(), nil
	}
	layers, err := decompose.LoadModel(inferModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return layers, nil
}

// runDistributed tokenizes the prompt and runs it through real toy
// transformer layers on the swarm.
func runDistributed(p *processor.EnhancedProcessor, layers []models.ModelLayer, rng *rand.Rand, prompt string) (string, error) {
	tok := inference.NewSimpleTokenizer()
	tok.BuildFromText(prompt, inferVocab)

	weights := inference.NewModelWeights()
	weights.InitTransformerLayer(rng, layers[0].ID, inferHidden, inferVocab)

	return p.RunDistributedInference(prompt, weights, tok, inference.LayerConfig{
		HiddenSize: inferHidden,
		VocabSize:  inferVocab,
	})
}
