package decompose

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/wingbeat/wingbeat/pkg/models"
)

// modelFile is the YAML structure of a model description file.
type modelFile struct {
	Name   string      `yaml:"name"`
	Layers []layerSpec `yaml:"layers"`
}

// layerSpec is one layer entry in a model file. Layers are listed in
// execution order; each implicitly depends on its predecessor unless
// depends_on names explicit predecessors by list index.
type layerSpec struct {
	Type       string             `yaml:"type"`
	Custom     string             `yaml:"custom,omitempty"`
	InputSize  int                `yaml:"input_size"`
	OutputSize int                `yaml:"output_size"`
	Parameters map[string]float64 `yaml:"parameters,omitempty"`
	DependsOn  []int              `yaml:"depends_on,omitempty"`
}

// LoadModel reads a model description from a YAML file and returns its
// layers with fresh ids and resolved dependencies.
func LoadModel(path string) ([]models.ModelLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return ParseModel(data)
}

// ParseModel parses a YAML model description.
func ParseModel(data []byte) ([]models.ModelLayer, error) {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	if len(mf.Layers) == 0 {
		return nil, fmt.Errorf("model file declares no layers")
	}

	layers := make([]models.ModelLayer, len(mf.Layers))
	for i, spec := range mf.Layers {
		lt := models.LayerType(spec.Type)
		if !lt.Valid() {
			return nil, fmt.Errorf("layer %d: unknown layer type %q", i, spec.Type)
		}
		layers[i] = models.ModelLayer{
			ID:         uuid.New(),
			Type:       lt,
			Custom:     spec.Custom,
			Parameters: spec.Parameters,
			InputSize:  spec.InputSize,
			OutputSize: spec.OutputSize,
		}
	}

	// Resolve dependencies after all ids exist.
	for i, spec := range mf.Layers {
		if spec.DependsOn == nil {
			if i > 0 {
				layers[i].Dependencies = []uuid.UUID{layers[i-1].ID}
			}
			continue
		}
		for _, dep := range spec.DependsOn {
			if dep < 0 || dep >= len(layers) || dep == i {
				return nil, fmt.Errorf("layer %d: invalid dependency index %d", i, dep)
			}
			layers[i].Dependencies = append(layers[i].Dependencies, layers[dep].ID)
		}
	}

	return layers, nil
}
