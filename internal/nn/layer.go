package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Layer implements a fully connected (dense) layer followed by an activation.
//
// Performs the transformation: y = act(W·x + b)
// where:
//   - x is the input vector with length inputSize
//   - W is the weight matrix with shape [outputSize, inputSize]
//   - b is the bias vector with length outputSize
//   - y is the output vector with length outputSize
//
// A Layer holds no per-sample state. Forward passes return a LayerCache that
// the caller hands to the backward pass, so one Layer can serve several
// in-flight samples.
type Layer struct {
	in         int
	out        int
	weights    *mat.Dense    // [out, in]
	bias       *mat.VecDense // [out]
	activation Activation
}

// LayerCache holds the values of one forward pass through a Layer that the
// backward pass needs.
type LayerCache struct {
	Input  *mat.VecDense // x, length inputSize
	Z      *mat.VecDense // pre-activation W·x + b
	Output *mat.VecDense // post-activation (and post-dropout) output

	// Mask marks units zeroed by dropout. nil when dropout was not applied.
	Mask []bool
	// Scale is the factor applied to surviving units (1 without dropout).
	Scale float64
}

// Dropped reports whether unit i was zeroed by dropout.
func (c *LayerCache) Dropped(i int) bool {
	return c.Mask != nil && c.Mask[i]
}

// NewLayer creates a dense layer with Xavier-initialized weights and zero biases.
func NewLayer(inputSize, outputSize int, act Activation, rng *rand.Rand) (*Layer, error) {
	if inputSize < 1 || outputSize < 1 {
		return nil, fmt.Errorf("%w: layer size %d→%d", ErrInvalidArchitecture, inputSize, outputSize)
	}
	if !act.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchitecture, act)
	}
	return &Layer{
		in:         inputSize,
		out:        outputSize,
		weights:    Xavier(outputSize, inputSize, rng),
		bias:       Zeros(outputSize),
		activation: act,
	}, nil
}

// Forward computes the layer output for a single input vector.
//
// Returns a *DimensionError if len(input) != InputSize. The returned slice is
// owned by the caller.
func (l *Layer) Forward(input []float64) ([]float64, error) {
	if err := checkLen("layer input", l.in, len(input)); err != nil {
		return nil, err
	}
	cache := l.forward(mat.NewVecDense(l.in, append([]float64(nil), input...)))
	return cache.Output.RawVector().Data, nil
}

// forward runs the affine transform and activation. x must have length l.in.
func (l *Layer) forward(x *mat.VecDense) *LayerCache {
	z := mat.NewVecDense(l.out, nil)
	z.MulVec(l.weights, x)
	z.AddVec(z, l.bias)

	out := mat.NewVecDense(l.out, nil)
	l.activation.apply(out.RawVector().Data, z.RawVector().Data)

	return &LayerCache{Input: x, Z: z, Output: out, Scale: 1}
}

// dropout zeroes each unit of the cached output with probability rate and
// scales the survivors by 1/(1-rate). A zero rate leaves the cache untouched.
func (c *LayerCache) dropout(rate float64, rng *rand.Rand) {
	if rate <= 0 {
		return
	}
	n := c.Output.Len()
	c.Mask = make([]bool, n)
	c.Scale = 1 / (1 - rate)
	data := c.Output.RawVector().Data
	for i := range data {
		if rng.Float64() < rate {
			c.Mask[i] = true
			data[i] = 0
			continue
		}
		data[i] *= c.Scale
	}
}

// InputSize returns the number of input features.
func (l *Layer) InputSize() int {
	return l.in
}

// OutputSize returns the number of output units.
func (l *Layer) OutputSize() int {
	return l.out
}

// Activation returns the configured activation.
func (l *Layer) Activation() Activation {
	return l.activation
}

// Weights returns a read-only view of the weight matrix.
func (l *Layer) Weights() mat.Matrix {
	return l.weights
}

// Bias returns a read-only view of the bias vector.
func (l *Layer) Bias() mat.Vector {
	return l.bias
}

// Parameters returns the live weight matrix and bias vector.
//
// Optimizers update these in place.
func (l *Layer) Parameters() (*mat.Dense, *mat.VecDense) {
	return l.weights, l.bias
}

// SetParameters copies w and b into the layer after validating their shapes.
func (l *Layer) SetParameters(w mat.Matrix, b mat.Vector) error {
	rows, cols := w.Dims()
	if err := checkLen("weight rows", l.out, rows); err != nil {
		return err
	}
	if err := checkLen("weight columns", l.in, cols); err != nil {
		return err
	}
	if err := checkLen("bias", l.out, b.Len()); err != nil {
		return err
	}
	l.weights.Copy(w)
	l.bias.CopyVec(b)
	return nil
}
