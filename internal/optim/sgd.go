package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/letternet/internal/nn"
)

// SGD implements per-sample Stochastic Gradient Descent with optional L2
// weight decay.
//
// Update rule for layer weights W, biases b, deltas δ and layer input x:
//
//	W = W + lr * δ * xᵀ
//	b = b + lr * δ
//
// followed, when L2 > 0, by the weight decay
//
//	W = W * (1 - lr * L2)
//
// Deltas already hold (target - output) information, so the update adds
// rather than subtracts. Rows belonging to units dropped in the forward pass
// are left untouched, decay included. Biases are decayed only with DecayBias.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR: 0.1,
//	    L2: 1e-4,
//	})
type SGD struct {
	lr        float64
	l2        float64
	decayBias bool
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR        float64 // Learning rate (default: 0.1)
	L2        float64 // L2 weight decay coefficient λ (default: 0, disabled)
	DecayBias bool    // Also decay biases
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.1
	}

	return &SGD{
		lr:        config.LR,
		l2:        config.L2,
		decayBias: config.DecayBias,
	}
}

// Step applies the update for one sample.
func (s *SGD) Step(net *nn.Network, trace *nn.Trace, grads *nn.Gradients) error {
	layers := net.Layers()
	if trace == nil || grads == nil || len(trace.Layers) != len(layers) || len(grads.Deltas) != len(layers) {
		return fmt.Errorf("%w: trace or gradients do not match network", nn.ErrDimensionMismatch)
	}

	decay := 1 - s.lr*s.l2
	for i, layer := range layers {
		w, b := layer.Parameters()
		cache := trace.Layers[i]
		delta := grads.Deltas[i]

		w.RankOne(w, s.lr, delta, cache.Input)
		b.AddScaledVec(b, s.lr, delta)

		if s.l2 == 0 {
			continue
		}
		for r := 0; r < layer.OutputSize(); r++ {
			if cache.Dropped(r) {
				continue
			}
			floats.Scale(decay, w.RawRowView(r))
			if s.decayBias {
				b.SetVec(r, b.AtVec(r)*decay)
			}
		}
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// L2 returns the weight decay coefficient.
func (s *SGD) L2() float64 {
	return s.l2
}
