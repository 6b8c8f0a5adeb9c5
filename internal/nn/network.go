package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Maximum layer width accepted by NewNetwork and by the model reader.
const MaxLayerSize = 1 << 20

// LayerSpec describes one dense layer of an Architecture.
type LayerSpec struct {
	Size       int        `yaml:"size"`
	Activation Activation `yaml:"activation"`
}

// Architecture is the fixed topology of a Network.
//
// Layers lists every layer after the input, the last one being the output
// layer. Only the output layer may use ActivationSoftmax.
type Architecture struct {
	InputSize int         `yaml:"input_size"`
	Layers    []LayerSpec `yaml:"layers"`
}

// Sizes builds an all-sigmoid architecture from the input size followed by
// the width of every subsequent layer.
//
// Example:
//
//	arch := nn.Sizes(2, 2, 1) // XOR: 2 inputs, 2 hidden units, 1 output
func Sizes(inputSize int, layerSizes ...int) Architecture {
	arch := Architecture{InputSize: inputSize, Layers: make([]LayerSpec, len(layerSizes))}
	for i, size := range layerSizes {
		arch.Layers[i] = LayerSpec{Size: size, Activation: ActivationSigmoid}
	}
	return arch
}

// WithOutput returns a copy of the architecture whose output layer uses act.
func (a Architecture) WithOutput(act Activation) Architecture {
	layers := append([]LayerSpec(nil), a.Layers...)
	if len(layers) > 0 {
		layers[len(layers)-1].Activation = act
	}
	return Architecture{InputSize: a.InputSize, Layers: layers}
}

// Validate checks sizes and activation placement.
func (a Architecture) Validate() error {
	if a.InputSize < 1 || a.InputSize > MaxLayerSize {
		return fmt.Errorf("%w: input size %d", ErrInvalidArchitecture, a.InputSize)
	}
	if len(a.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidArchitecture)
	}
	for i, spec := range a.Layers {
		if spec.Size < 1 || spec.Size > MaxLayerSize {
			return fmt.Errorf("%w: layer %d size %d", ErrInvalidArchitecture, i, spec.Size)
		}
		if !spec.Activation.Valid() {
			return fmt.Errorf("%w: layer %d activation %v", ErrInvalidArchitecture, i, spec.Activation)
		}
		if spec.Activation == ActivationSoftmax && i != len(a.Layers)-1 {
			return fmt.Errorf("%w: softmax on hidden layer %d", ErrInvalidArchitecture, i)
		}
	}
	return nil
}

// Network is an ordered stack of dense layers.
//
// The topology is fixed at construction; weights change in place during
// training. A Network is not safe for concurrent use while it is being
// trained.
type Network struct {
	inputSize int
	layers    []*Layer

	// Hyperparameters recorded with the weights when the model is saved.
	learningRate float64
	dropoutRate  float64
}

// Trace is the result of a training-mode forward pass: one LayerCache per
// layer, in order. It is consumed by Backward.
type Trace struct {
	Layers []*LayerCache
}

// Output returns the final layer's output values.
func (t *Trace) Output() []float64 {
	return t.Layers[len(t.Layers)-1].Output.RawVector().Data
}

// NewNetwork creates a network with Xavier-initialized weights drawn from rng.
func NewNetwork(arch Architecture, rng *rand.Rand) (*Network, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	net := &Network{
		inputSize: arch.InputSize,
		layers:    make([]*Layer, len(arch.Layers)),
	}
	in := arch.InputSize
	for i, spec := range arch.Layers {
		layer, err := NewLayer(in, spec.Size, spec.Activation, rng)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		net.layers[i] = layer
		in = spec.Size
	}
	return net, nil
}

// Architecture returns the network topology.
func (n *Network) Architecture() Architecture {
	arch := Architecture{InputSize: n.inputSize, Layers: make([]LayerSpec, len(n.layers))}
	for i, l := range n.layers {
		arch.Layers[i] = LayerSpec{Size: l.out, Activation: l.activation}
	}
	return arch
}

// InputSize returns the expected input vector length.
func (n *Network) InputSize() int {
	return n.inputSize
}

// OutputSize returns the width of the output layer.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].out
}

// Layers returns the layers in forward order.
func (n *Network) Layers() []*Layer {
	return n.layers
}

// OutputActivation returns the activation of the final layer.
func (n *Network) OutputActivation() Activation {
	return n.layers[len(n.layers)-1].activation
}

// LearningRate returns the learning rate recorded for persistence.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// DropoutRate returns the dropout rate recorded for persistence.
func (n *Network) DropoutRate() float64 {
	return n.dropoutRate
}

// SetHyper records the hyperparameters that are saved alongside the weights.
func (n *Network) SetHyper(learningRate, dropoutRate float64) {
	n.learningRate = learningRate
	n.dropoutRate = dropoutRate
}

// Forward runs an evaluation-mode forward pass (dropout disabled).
//
// Returns a *DimensionError if len(input) != InputSize; no computation is
// performed in that case.
func (n *Network) Forward(input []float64) ([]float64, error) {
	trace, err := n.ForwardTrain(input, 0, nil)
	if err != nil {
		return nil, err
	}
	return trace.Output(), nil
}

// Probabilities is Forward under the name used by inference front-ends.
// With a softmax output layer the result sums to one.
func (n *Network) Probabilities(input []float64) ([]float64, error) {
	return n.Forward(input)
}

// Predict returns the class index for input (see ClassOf).
func (n *Network) Predict(input []float64) (int, error) {
	out, err := n.Forward(input)
	if err != nil {
		return -1, err
	}
	return ClassOf(out), nil
}

// ForwardTrain runs a forward pass and keeps every layer's cache.
//
// Each hidden unit is dropped with probability dropoutRate using rng; the
// output layer is never dropped. A zero dropoutRate draws nothing from rng,
// which may then be nil.
func (n *Network) ForwardTrain(input []float64, dropoutRate float64, rng *rand.Rand) (*Trace, error) {
	if err := checkLen("input", n.inputSize, len(input)); err != nil {
		return nil, err
	}
	if dropoutRate < 0 || dropoutRate >= 1 {
		return nil, fmt.Errorf("dropout rate %v outside [0,1)", dropoutRate)
	}

	x := mat.NewVecDense(n.inputSize, append([]float64(nil), input...))
	trace := &Trace{Layers: make([]*LayerCache, len(n.layers))}
	last := len(n.layers) - 1
	for i, l := range n.layers {
		cache := l.forward(x)
		if i != last {
			cache.dropout(dropoutRate, rng)
		}
		trace.Layers[i] = cache
		x = cache.Output
	}
	return trace, nil
}

// Loss returns the per-sample loss of output against target.
//
// Sigmoid output layers use the squared error Σ 0.5(t-o)²; softmax output
// layers use cross-entropy. Both vectors must have length OutputSize.
func (n *Network) Loss(output, target []float64) (float64, error) {
	if err := checkLen("output", n.OutputSize(), len(output)); err != nil {
		return 0, err
	}
	if err := checkLen("target", n.OutputSize(), len(target)); err != nil {
		return 0, err
	}
	if n.OutputActivation() == ActivationSoftmax {
		return CrossEntropy(output, target), nil
	}
	return MSE(output, target), nil
}

// CheckSample validates a sample against the network's sizes.
func (n *Network) CheckSample(s Sample) error {
	if err := checkLen("input", n.inputSize, len(s.Input)); err != nil {
		return err
	}
	if err := checkLen("target", n.OutputSize(), len(s.Target)); err != nil {
		return err
	}
	return ValidateTarget(s.Target)
}
