// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the dense feedforward network used for letter
// recognition.
//
// # Overview
//
// This package contains:
//   - Network: an ordered stack of dense layers with sigmoid hidden units
//     and a sigmoid or softmax output layer
//   - Layer: a dense affine transform plus activation
//   - Sample: an input vector paired with a one-hot target
//   - Activations: Sigmoid, SigmoidDerivativeFromInput, Softmax
//   - Persistence: Save, Load in the .lnet binary format
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/letternet/nn"
//	    "github.com/born-ml/letternet/train"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(1))
//	    net, err := nn.NewNetwork(nn.Sizes(400, 64, 3), rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    report, err := train.Train(ctx, net, samples, train.DefaultConfig())
//	    ...
//	    class, err := net.Predict(input)
//	}
//
// # Training and inference
//
// Forward and Predict always run with dropout disabled. Training goes through
// ForwardTrain, Backward and an optimizer Step, which the train package
// orchestrates.
//
// # Persistence
//
// Save writes atomically; Load migrates legacy files that predate the dropout
// rate field, defaulting it to 0.
package nn
