package decompose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wingbeat/wingbeat/pkg/models"
)

const sampleYAML = `
name: tiny
layers:
  - type: embedding
    input_size: 64
    output_size: 128
  - type: attention
    input_size: 128
    output_size: 128
  - type: custom
    custom: router
    input_size: 128
    output_size: 128
    depends_on: [0]
  - type: output
    input_size: 128
    output_size: 1000
`

func TestParseModel(t *testing.T) {
	layers, err := ParseModel([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseModel failed: %v", err)
	}
	if len(layers) != 4 {
		t.Fatalf("parsed %d layers, want 4", len(layers))
	}
	if layers[2].Type != models.LayerCustom || layers[2].Name() != "router" {
		t.Errorf("custom layer name = %q, want router", layers[2].Name())
	}

	// Implicit chain for layers without depends_on.
	if len(layers[1].Dependencies) != 1 || layers[1].Dependencies[0] != layers[0].ID {
		t.Error("layer 1 should implicitly depend on layer 0")
	}
	// Explicit depends_on overrides the chain.
	if len(layers[2].Dependencies) != 1 || layers[2].Dependencies[0] != layers[0].ID {
		t.Error("layer 2 should depend on layer 0 explicitly")
	}
	if len(layers[0].Dependencies) != 0 {
		t.Error("first layer should have no dependencies")
	}
}

func TestParseModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty layers", "name: x\nlayers: []"},
		{"unknown type", "layers:\n  - type: quantum\n    input_size: 1\n    output_size: 1"},
		{"self dependency", "layers:\n  - type: output\n    input_size: 1\n    output_size: 1\n    depends_on: [0]"},
		{"out of range dependency", "layers:\n  - type: output\n    input_size: 1\n    output_size: 1\n    depends_on: [5]"},
		{"not yaml", ":::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModel([]byte(tt.yaml)); err == nil {
				t.Error("ParseModel should fail")
			}
		})
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}

	layers, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if len(layers) != 4 {
		t.Errorf("loaded %d layers, want 4", len(layers))
	}

	if _, err := LoadModel(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadModel should fail for a missing file")
	}
}
