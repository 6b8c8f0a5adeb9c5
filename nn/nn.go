// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"math/rand"

	"github.com/born-ml/letternet/internal/nn"
	"github.com/born-ml/letternet/internal/serialization"
)

// Network is an ordered stack of dense layers.
type Network = nn.Network

// Layer is a dense affine transform followed by an activation.
type Layer = nn.Layer

// Architecture is the fixed topology of a Network.
type Architecture = nn.Architecture

// LayerSpec describes one layer of an Architecture.
type LayerSpec = nn.LayerSpec

// Sample is an input vector paired with its target.
type Sample = nn.Sample

// Snapshot is a deep copy of a network's weights and biases.
type Snapshot = nn.Snapshot

// Trace holds the per-layer caches of a training-mode forward pass.
type Trace = nn.Trace

// Gradients holds the per-layer deltas computed by Backward.
type Gradients = nn.Gradients

// DimensionError reports a length mismatch.
type DimensionError = nn.DimensionError

// ReadOptions configures model loading.
type ReadOptions = serialization.ReadOptions

// Activations

// Activation selects a layer's nonlinearity.
type Activation = nn.Activation

// Supported activations.
const (
	ActivationSigmoid = nn.ActivationSigmoid
	ActivationSoftmax = nn.ActivationSoftmax
)

// Errors

// Errors returned by networks and layers.
var (
	ErrDimensionMismatch   = nn.ErrDimensionMismatch
	ErrInvalidTarget       = nn.ErrInvalidTarget
	ErrInvalidArchitecture = nn.ErrInvalidArchitecture
	ErrNumericInstability  = nn.ErrNumericInstability
	ErrSnapshotMismatch    = nn.ErrSnapshotMismatch
)

// NewNetwork creates a network with Xavier-initialized weights drawn from rng.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	net, err := nn.NewNetwork(nn.Sizes(2, 2, 1), rng)
func NewNetwork(arch Architecture, rng *rand.Rand) (*Network, error) {
	return nn.NewNetwork(arch, rng)
}

// Sizes builds an all-sigmoid architecture.
func Sizes(inputSize int, layerSizes ...int) Architecture {
	return nn.Sizes(inputSize, layerSizes...)
}

// NewSample builds a sample with a one-hot target.
func NewSample(input []float64, class, numClasses int) (Sample, error) {
	return nn.NewSample(input, class, numClasses)
}

// OneHot returns a one-hot vector.
func OneHot(class, n int) []float64 {
	return nn.OneHot(class, n)
}

// ClassOf maps an output or target vector to its class index.
func ClassOf(vec []float64) int {
	return nn.ClassOf(vec)
}

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return nn.Sigmoid(x)
}

// SigmoidDerivativeFromInput returns σ(x)(1-σ(x)).
func SigmoidDerivativeFromInput(x float64) float64 {
	return nn.SigmoidDerivativeFromInput(x)
}

// Softmax writes the max-shifted softmax of z into dst.
func Softmax(dst, z []float64) []float64 {
	return nn.Softmax(dst, z)
}

// Load reads a network saved with Network.Save.
func Load(path string, opts ReadOptions) (*Network, error) {
	return nn.Load(path, opts)
}

// Read decodes a network from r.
func Read(r io.Reader, opts ReadOptions) (*Network, error) {
	return nn.Read(r, opts)
}
