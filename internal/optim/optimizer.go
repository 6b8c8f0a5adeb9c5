// Package optim implements the weight update rules used to train letternet
// networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: online stochastic gradient descent with optional L2 weight decay
//   - PlateauScheduler: multiplicative learning-rate decay on validation plateaus
//
// Example usage:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.1, L2: 1e-4})
//
//	for _, sample := range samples {
//	    trace, _ := net.ForwardTrain(sample.Input, dropout, rng)
//	    grads, _ := net.Backward(trace, sample.Target)
//	    optimizer.Step(net, trace, grads)
//	}
package optim

import (
	"github.com/born-ml/letternet/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply the update for one sample
//   - GetLR / SetLR: Read and change the learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies the update for one sample to every layer of net.
	//
	// trace and grads must come from the same sample:
	//   trace, _ := net.ForwardTrain(x, dropout, rng)
	//   grads, _ := net.Backward(trace, target)
	//   optimizer.Step(net, trace, grads)
	Step(net *nn.Network, trace *nn.Trace, grads *nn.Gradients) error

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}
