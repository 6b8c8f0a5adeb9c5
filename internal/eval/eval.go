// Package eval measures how well a trained network classifies a dataset.
package eval

import (
	"errors"
	"fmt"

	"github.com/born-ml/letternet/internal/nn"
)

// ErrEmptyDataset is returned when there is nothing to evaluate.
var ErrEmptyDataset = errors.New("empty dataset")

// Result summarizes a network's performance on a dataset.
type Result struct {
	Loss     float64 // Mean per-sample loss
	Accuracy float64 // Fraction of samples classified correctly
	Samples  int
}

// Evaluate runs every sample through net in evaluation mode (no dropout) and
// returns the mean loss and the accuracy.
func Evaluate(net *nn.Network, samples []nn.Sample) (Result, error) {
	outputs, err := forwardAll(net, samples)
	if err != nil {
		return Result{}, err
	}
	var total float64
	correct := 0
	for i, s := range samples {
		loss, err := net.Loss(outputs[i], s.Target)
		if err != nil {
			return Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		total += loss
		if nn.ClassOf(outputs[i]) == nn.ClassOf(s.Target) {
			correct++
		}
	}
	n := float64(len(samples))
	return Result{Loss: total / n, Accuracy: float64(correct) / n, Samples: len(samples)}, nil
}

// Accuracy returns the fraction of samples whose predicted class matches the
// class of their target.
func Accuracy(net *nn.Network, samples []nn.Sample) (float64, error) {
	outputs, err := forwardAll(net, samples)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, s := range samples {
		if nn.ClassOf(outputs[i]) == nn.ClassOf(s.Target) {
			correct++
		}
	}
	return float64(correct) / float64(len(samples)), nil
}

// forwardAll returns the evaluation-mode output of every sample.
func forwardAll(net *nn.Network, samples []nn.Sample) ([][]float64, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}
	outputs := make([][]float64, len(samples))
	for i, s := range samples {
		out, err := net.Forward(s.Input)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		outputs[i] = out
	}
	return outputs, nil
}

// EvaluateAccuracy is Accuracy for inputs paired with integer class labels.
func EvaluateAccuracy(net *nn.Network, images [][]float64, labels []int) (float64, error) {
	samples, err := labelled(net, images, labels)
	if err != nil {
		return 0, err
	}
	return Accuracy(net, samples)
}

// labelled pairs inputs with targets built from class labels.
func labelled(net *nn.Network, images [][]float64, labels []int) ([]nn.Sample, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: %d inputs, %d labels", nn.ErrDimensionMismatch, len(images), len(labels))
	}
	width := net.OutputSize()
	samples := make([]nn.Sample, len(images))
	for i, img := range images {
		if width == 1 {
			if labels[i] != 0 && labels[i] != 1 {
				return nil, fmt.Errorf("sample %d: %w: binary label %d", i, nn.ErrInvalidTarget, labels[i])
			}
			samples[i] = nn.Sample{Input: img, Target: []float64{float64(labels[i])}}
			continue
		}
		s, err := nn.NewSample(img, labels[i], width)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples[i] = s
	}
	return samples, nil
}
