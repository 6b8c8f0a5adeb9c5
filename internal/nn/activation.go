package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Activation selects the nonlinearity applied after a layer's affine transform.
//
// The numeric value is persisted in model files, so existing values must never
// be renumbered.
type Activation uint8

const (
	// ActivationSigmoid applies the logistic function element-wise.
	ActivationSigmoid Activation = 0
	// ActivationSoftmax normalizes the layer output into a probability vector.
	// Only valid on the final layer.
	ActivationSoftmax Activation = 1
)

// String returns the lowercase name of the activation.
func (a Activation) String() string {
	switch a {
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationSoftmax:
		return "softmax"
	default:
		return fmt.Sprintf("activation(%d)", uint8(a))
	}
}

// Valid reports whether a is a known activation.
func (a Activation) Valid() bool {
	return a == ActivationSigmoid || a == ActivationSoftmax
}

// ParseActivation converts a name produced by String back into an Activation.
func ParseActivation(s string) (Activation, error) {
	switch s {
	case "sigmoid":
		return ActivationSigmoid, nil
	case "softmax":
		return ActivationSoftmax, nil
	default:
		return 0, fmt.Errorf("unknown activation %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown activation %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sigmoid returns the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// SigmoidDerivativeFromInput returns σ'(x) = σ(x)(1-σ(x)) for a pre-activation value x.
func SigmoidDerivativeFromInput(x float64) float64 {
	s := Sigmoid(x)
	return s * (1 - s)
}

// Softmax writes the softmax of z into dst and returns dst.
//
// The maximum of z is subtracted before exponentiating so large inputs cannot
// overflow. dst may alias z. If dst is nil a new slice is allocated.
func Softmax(dst, z []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(z))
	}
	if len(z) == 0 {
		return dst
	}
	shift := floats.Max(z)
	for i, v := range z {
		dst[i] = math.Exp(v - shift)
	}
	floats.Scale(1/floats.Sum(dst), dst)
	return dst
}

// apply runs the activation over the pre-activation vector z, writing into out.
func (a Activation) apply(out, z []float64) {
	switch a {
	case ActivationSoftmax:
		Softmax(out, z)
	default:
		for i, v := range z {
			out[i] = Sigmoid(v)
		}
	}
}
