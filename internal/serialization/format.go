package serialization

import "fmt"

// Format constants.
const (
	MagicBytes      = "LNET"
	FormatVersionV1 = 1 // v1: sizes, learning rate and weights only
	FormatVersionV2 = 2 // v2: adds dropout rate, activation codes and SHA-256 checksum
	FormatVersion   = FormatVersionV2
	ChecksumSize    = 32 // SHA-256 checksum size (32 bytes)
)

// Activation codes stored per layer in v2 files.
const (
	ActivationSigmoid uint8 = 0
	ActivationSoftmax uint8 = 1
)

// DefaultDropoutRate is assigned to models read from v1 files, which do not
// record a dropout rate.
const DefaultDropoutRate = 0.0

// Limits for resource protection against malformed files.
const (
	MaxLayers     = 1024
	MaxLayerSize  = 1 << 20
	MaxParameters = 1 << 26 // total weights + biases
)

// Model is the persisted form of a network: architecture, hyperparameters
// and parameters, independent of the in-memory layer types.
type Model struct {
	Version      uint32 // Format version the model was read from (0 when built in memory)
	InputSize    int
	LayerSizes   []int   // Output size of every layer, in forward order
	Activations  []uint8 // Activation code of every layer
	LearningRate float64
	DropoutRate  float64
	Weights      [][]float64 // Per layer, row-major [LayerSizes[i], inputs of layer i]
	Biases       [][]float64 // Per layer, length LayerSizes[i]

	// Migrated lists the fields that were filled with defaults by the legacy
	// migration. Empty for current-format files.
	Migrated []string
}

// LayerInput returns the input width of layer i.
func (m *Model) LayerInput(i int) int {
	if i == 0 {
		return m.InputSize
	}
	return m.LayerSizes[i-1]
}

// ParameterCount returns the total number of weights and biases implied by
// the declared sizes.
func (m *Model) ParameterCount() int {
	total := 0
	for i, out := range m.LayerSizes {
		total += out*m.LayerInput(i) + out
	}
	return total
}

// Validate checks that the declared architecture matches the actual shape of
// the parameter data.
func (m *Model) Validate() error {
	if err := validateSizes(m.InputSize, m.LayerSizes); err != nil {
		return err
	}
	n := len(m.LayerSizes)
	if len(m.Activations) != n {
		return &ValidationError{Type: "shape_mismatch", Field: "activations",
			Details: fmt.Sprintf("%d codes for %d layers", len(m.Activations), n)}
	}
	for i, code := range m.Activations {
		if code > ActivationSoftmax {
			return &ValidationError{Type: "invalid_activation", Field: fmt.Sprintf("layer %d", i),
				Details: fmt.Sprintf("code %d", code)}
		}
	}
	if m.DropoutRate < 0 || m.DropoutRate >= 1 {
		return &ValidationError{Type: "out_of_range", Field: "dropout rate",
			Details: fmt.Sprintf("%v not in [0,1)", m.DropoutRate)}
	}
	if len(m.Weights) != n || len(m.Biases) != n {
		return &ValidationError{Type: "shape_mismatch", Field: "parameters",
			Details: fmt.Sprintf("%d weight and %d bias blocks for %d layers", len(m.Weights), len(m.Biases), n)}
	}
	for i, out := range m.LayerSizes {
		if want := out * m.LayerInput(i); len(m.Weights[i]) != want {
			return &ValidationError{Type: "shape_mismatch", Field: fmt.Sprintf("layer %d weights", i),
				Details: fmt.Sprintf("expected %d values, got %d", want, len(m.Weights[i]))}
		}
		if len(m.Biases[i]) != out {
			return &ValidationError{Type: "shape_mismatch", Field: fmt.Sprintf("layer %d bias", i),
				Details: fmt.Sprintf("expected %d values, got %d", out, len(m.Biases[i]))}
		}
	}
	return nil
}

// validateSizes checks the architecture header against the resource limits.
func validateSizes(inputSize int, layerSizes []int) error {
	if inputSize < 1 || inputSize > MaxLayerSize {
		return &ValidationError{Type: "out_of_range", Field: "input size",
			Details: fmt.Sprintf("%d not in [1,%d]", inputSize, MaxLayerSize)}
	}
	if len(layerSizes) < 1 || len(layerSizes) > MaxLayers {
		return &ValidationError{Type: "out_of_range", Field: "layer count",
			Details: fmt.Sprintf("%d not in [1,%d]", len(layerSizes), MaxLayers)}
	}
	total, in := 0, inputSize
	for i, out := range layerSizes {
		if out < 1 || out > MaxLayerSize {
			return &ValidationError{Type: "out_of_range", Field: fmt.Sprintf("layer %d size", i),
				Details: fmt.Sprintf("%d not in [1,%d]", out, MaxLayerSize)}
		}
		total += out*in + out
		if total > MaxParameters {
			return &ValidationError{Type: "too_many_parameters",
				Details: fmt.Sprintf("more than %d parameters", MaxParameters)}
		}
		in = out
	}
	return nil
}
