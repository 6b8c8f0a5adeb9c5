package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gradients holds the error signal (delta) of every unit for one sample.
//
// Deltas already carry the sign of (target - output), so the weight update is
// w += lr·δ·x rather than w -= lr·∂L/∂w. Units dropped in the forward pass
// have a zero delta and are flagged in the matching LayerCache.
type Gradients struct {
	Deltas []*mat.VecDense // one per layer, length OutputSize of that layer
}

// Backward computes the deltas of every layer for the sample that produced
// trace, walking from the output layer back to the first hidden layer.
//
// The output delta depends on the output activation:
//   - sigmoid: δ = (t - o)·o·(1 - o), the squared-error gradient
//   - softmax: δ = t - o, the cross-entropy gradient
//
// A hidden unit i of layer L gets δ_i = σ'(z_i)·s·Σ_j δ_j(L+1)·W_ji(L+1),
// where s is the dropout survivor scale. Dropped units get δ_i = 0.
func (n *Network) Backward(trace *Trace, target []float64) (*Gradients, error) {
	if trace == nil || len(trace.Layers) != len(n.layers) {
		return nil, fmt.Errorf("%w: trace does not belong to this network", ErrDimensionMismatch)
	}
	if err := checkLen("target", n.OutputSize(), len(target)); err != nil {
		return nil, err
	}

	grads := &Gradients{Deltas: make([]*mat.VecDense, len(n.layers))}

	last := len(n.layers) - 1
	grads.Deltas[last] = outputDelta(n.layers[last].activation, trace.Layers[last], target)

	for i := last - 1; i >= 0; i-- {
		next := n.layers[i+1]
		cache := trace.Layers[i]

		back := mat.NewVecDense(n.layers[i].out, nil)
		back.MulVec(next.weights.T(), grads.Deltas[i+1])

		z := cache.Z.RawVector().Data
		d := back.RawVector().Data
		for k := range d {
			if cache.Dropped(k) {
				d[k] = 0
				continue
			}
			d[k] *= SigmoidDerivativeFromInput(z[k]) * cache.Scale
		}
		grads.Deltas[i] = back
	}

	return grads, nil
}

func outputDelta(act Activation, cache *LayerCache, target []float64) *mat.VecDense {
	out := cache.Output.RawVector().Data
	delta := mat.NewVecDense(len(out), nil)
	d := delta.RawVector().Data
	for k, o := range out {
		switch act {
		case ActivationSoftmax:
			d[k] = target[k] - o
		default:
			d[k] = (target[k] - o) * o * (1 - o)
		}
	}
	return delta
}
