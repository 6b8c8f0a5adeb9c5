package nn

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/letternet/internal/serialization"
)

// Model converts the network into its persisted form.
//
// Weights are copied row-major, so the result does not alias the network.
func (n *Network) Model() *serialization.Model {
	m := &serialization.Model{
		InputSize:    n.inputSize,
		LayerSizes:   make([]int, len(n.layers)),
		Activations:  make([]uint8, len(n.layers)),
		LearningRate: n.learningRate,
		DropoutRate:  n.dropoutRate,
		Weights:      make([][]float64, len(n.layers)),
		Biases:       make([][]float64, len(n.layers)),
	}
	for i, l := range n.layers {
		m.LayerSizes[i] = l.out
		m.Activations[i] = uint8(l.activation)

		w := make([]float64, 0, l.out*l.in)
		for r := 0; r < l.out; r++ {
			w = append(w, l.weights.RawRowView(r)...)
		}
		m.Weights[i] = w
		m.Biases[i] = append([]float64(nil), l.bias.RawVector().Data...)
	}
	return m
}

// FromModel rebuilds a network from its persisted form.
func FromModel(m *serialization.Model) (*Network, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	arch := Architecture{InputSize: m.InputSize, Layers: make([]LayerSpec, len(m.LayerSizes))}
	for i, size := range m.LayerSizes {
		arch.Layers[i] = LayerSpec{Size: size, Activation: Activation(m.Activations[i])}
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}

	net := &Network{
		inputSize:    m.InputSize,
		layers:       make([]*Layer, len(m.LayerSizes)),
		learningRate: m.LearningRate,
		dropoutRate:  m.DropoutRate,
	}
	in := m.InputSize
	for i, spec := range arch.Layers {
		w := append([]float64(nil), m.Weights[i]...)
		b := append([]float64(nil), m.Biases[i]...)
		net.layers[i] = &Layer{
			in:         in,
			out:        spec.Size,
			weights:    mat.NewDense(spec.Size, in, w),
			bias:       mat.NewVecDense(spec.Size, b),
			activation: spec.Activation,
		}
		in = spec.Size
	}
	return net, nil
}

// Save atomically writes the network to path in the .lnet format.
func (n *Network) Save(path string) error {
	if err := serialization.WriteFile(path, n.Model()); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// Encode writes the network to w in the .lnet format.
func (n *Network) Encode(w io.Writer) error {
	return serialization.Write(w, n.Model())
}

// Load reads a network saved with Save.
//
// Legacy files are migrated as described in the serialization package.
func Load(path string, opts serialization.ReadOptions) (*Network, error) {
	m, err := serialization.ReadFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return FromModel(m)
}

// Read decodes a network from r.
func Read(r io.Reader, opts serialization.ReadOptions) (*Network, error) {
	m, err := serialization.Read(r, opts)
	if err != nil {
		return nil, err
	}
	return FromModel(m)
}
