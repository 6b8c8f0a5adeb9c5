// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package eval measures classification quality.
package eval

import (
	"github.com/born-ml/letternet/internal/eval"
	"github.com/born-ml/letternet/internal/nn"
)

// Matrix is a confusion matrix indexed [actual][predicted].
type Matrix = eval.Matrix

// Result summarizes loss and accuracy on a dataset.
type Result = eval.Result

// Evaluate returns the mean loss and accuracy of net on samples.
func Evaluate(net *nn.Network, samples []nn.Sample) (Result, error) {
	return eval.Evaluate(net, samples)
}

// Accuracy returns the fraction of correctly classified samples.
func Accuracy(net *nn.Network, samples []nn.Sample) (float64, error) {
	return eval.Accuracy(net, samples)
}

// ConfusionMatrix counts [actual][predicted] over samples.
func ConfusionMatrix(net *nn.Network, samples []nn.Sample, numClasses int) (Matrix, error) {
	return eval.ConfusionMatrix(net, samples, numClasses)
}

// EvaluateAccuracy scores inputs against integer class labels.
func EvaluateAccuracy(net *nn.Network, images [][]float64, labels []int) (float64, error) {
	return eval.EvaluateAccuracy(net, images, labels)
}

// ComputeConfusionMatrix builds a confusion matrix from integer class labels.
func ComputeConfusionMatrix(net *nn.Network, images [][]float64, labels []int, numClasses int) (Matrix, error) {
	return eval.ComputeConfusionMatrix(net, images, labels, numClasses)
}
