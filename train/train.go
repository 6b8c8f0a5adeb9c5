// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train fits networks to datasets.
//
// Example:
//
//	cfg, err := train.LoadConfigFile("train.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := train.Train(ctx, net, samples, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.BestEpoch, report.BestValidationLoss)
package train

import (
	"context"
	"io"

	"github.com/born-ml/letternet/internal/nn"
	"github.com/born-ml/letternet/internal/train"
)

// Config holds the hyperparameters of a training run.
type Config = train.Config

// Trainer drives training runs.
type Trainer = train.Trainer

// Option customizes a Trainer.
type Option = train.Option

// Report is the outcome of a training run.
type Report = train.Report

// EpochStats records the metrics of one epoch.
type EpochStats = train.EpochStats

// Metrics are the results of a validation check.
type Metrics = train.Metrics

// Validator scores a network on the validation split.
type Validator = train.Validator

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc = train.ValidatorFunc

// Errors returned by training.
var (
	ErrEmptyDataset  = train.ErrEmptyDataset
	ErrInvalidConfig = train.ErrInvalidConfig
)

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// LoadConfig decodes a YAML configuration over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	return train.LoadConfig(r)
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	return train.LoadConfigFile(path)
}

// New creates a Trainer.
func New(cfg Config, opts ...Option) (*Trainer, error) {
	return train.New(cfg, opts...)
}

// WithValidator replaces the default validator.
func WithValidator(v Validator) Option {
	return train.WithValidator(v)
}

// Train fits net to samples.
func Train(ctx context.Context, net *nn.Network, samples []nn.Sample, cfg Config) (*Report, error) {
	return train.Train(ctx, net, samples, cfg)
}
