package train

import (
	"github.com/born-ml/letternet/internal/eval"
	"github.com/born-ml/letternet/internal/nn"
)

// Metrics are the results of one validation check. Lower Loss is better.
type Metrics struct {
	Loss     float64
	Accuracy float64
}

// Validator scores a network on the validation split.
//
// Implementations must not modify the network.
type Validator interface {
	Validate(net *nn.Network, samples []nn.Sample) (Metrics, error)
}

// DatasetValidator evaluates the network on the samples with dropout
// disabled. It is the default Validator.
type DatasetValidator struct{}

// Validate implements Validator.
func (DatasetValidator) Validate(net *nn.Network, samples []nn.Sample) (Metrics, error) {
	res, err := eval.Evaluate(net, samples)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{Loss: res.Loss, Accuracy: res.Accuracy}, nil
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(net *nn.Network, samples []nn.Sample) (Metrics, error)

// Validate implements Validator.
func (f ValidatorFunc) Validate(net *nn.Network, samples []nn.Sample) (Metrics, error) {
	return f(net, samples)
}
