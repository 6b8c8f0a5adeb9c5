// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the weight update rules used by the trainer.
package optim

import (
	"github.com/born-ml/letternet/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD represents per-sample stochastic gradient descent with L2 decay.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// PlateauScheduler decays the learning rate on validation plateaus.
type PlateauScheduler = optim.PlateauScheduler

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR: 0.1,
//	    L2: 1e-4,
//	})
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}
