package train

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the hyperparameters of a training run.
//
// Load it from YAML with LoadConfig or start from DefaultConfig. Zero values
// are not replaced by defaults; call Validate (New does) before use.
type Config struct {
	// LearningRate is the SGD step size.
	LearningRate float64 `yaml:"learning_rate"`

	// Epochs is the maximum number of passes over the training split.
	Epochs int `yaml:"epochs"`

	// BatchSize groups samples for progress reporting. Each sample is still
	// applied as its own update.
	BatchSize int `yaml:"batch_size"`

	// DropoutRate is the probability of zeroing a hidden unit during training.
	// Must be in [0,1).
	DropoutRate float64 `yaml:"dropout_rate"`

	// L2Lambda is the weight decay coefficient. 0 disables decay.
	L2Lambda float64 `yaml:"l2_lambda"`
	// DecayBias extends weight decay to biases.
	DecayBias bool `yaml:"decay_bias"`

	// Patience is the number of consecutive non-improving validation checks
	// after which training stops. 0 disables early stopping.
	Patience int `yaml:"patience"`

	// ValidationSplit is the fraction of samples held out for validation.
	// Must be in [0,1). With 0, validation checks run on the training data.
	ValidationSplit float64 `yaml:"validation_split"`
	// ValidationEvery runs a validation check every N epochs.
	ValidationEvery int `yaml:"validation_every"`

	// LRDecayFactor multiplies the learning rate each time the number of
	// non-improving checks reaches a multiple of LRDecayEvery. 0 disables it.
	LRDecayFactor   float64 `yaml:"lr_decay_factor"`
	LRDecayEvery    int     `yaml:"lr_decay_every"`
	MinLearningRate float64 `yaml:"min_learning_rate"`

	// Seed drives sample shuffling, the validation split and dropout masks.
	Seed int64 `yaml:"seed"`

	// CheckpointPath, when set, receives an atomic save of the network every
	// time a new best validation loss is reached.
	CheckpointPath string `yaml:"checkpoint_path"`

	// Logger receives progress logs. nil uses slog.Default().
	Logger *slog.Logger `yaml:"-"`
	// OnEpoch, when set, is called after every epoch.
	OnEpoch func(EpochStats) `yaml:"-"`
}

// DefaultConfig returns sensible defaults for the letter classifier.
func DefaultConfig() Config {
	return Config{
		LearningRate:    0.1,
		Epochs:          100,
		BatchSize:       32,
		DropoutRate:     0,
		L2Lambda:        0,
		Patience:        10,
		ValidationSplit: 0.2,
		ValidationEvery: 1,
		LRDecayFactor:   0,
		LRDecayEvery:    3,
		MinLearningRate: 0,
		Seed:            1,
	}
}

// Validate checks every field and returns an ErrInvalidConfig-wrapped error
// naming the first invalid one.
//
//nolint:gocyclo // Flat list of independent range checks
func (c Config) Validate() error {
	switch {
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return invalid("learning_rate", c.LearningRate, "must be a positive finite number")
	case c.Epochs < 1:
		return invalid("epochs", c.Epochs, "must be at least 1")
	case c.BatchSize < 1:
		return invalid("batch_size", c.BatchSize, "must be at least 1")
	case !(c.DropoutRate >= 0 && c.DropoutRate < 1):
		return invalid("dropout_rate", c.DropoutRate, "must be in [0,1)")
	case !(c.L2Lambda >= 0) || math.IsInf(c.L2Lambda, 0):
		return invalid("l2_lambda", c.L2Lambda, "must be a non-negative finite number")
	case c.LearningRate*c.L2Lambda >= 1:
		return invalid("l2_lambda", c.L2Lambda, "learning_rate*l2_lambda must be below 1")
	case c.Patience < 0:
		return invalid("patience", c.Patience, "must not be negative")
	case !(c.ValidationSplit >= 0 && c.ValidationSplit < 1):
		return invalid("validation_split", c.ValidationSplit, "must be in [0,1)")
	case c.ValidationEvery < 1:
		return invalid("validation_every", c.ValidationEvery, "must be at least 1")
	case !(c.LRDecayFactor >= 0 && c.LRDecayFactor < 1):
		return invalid("lr_decay_factor", c.LRDecayFactor, "must be in [0,1)")
	case c.LRDecayFactor > 0 && c.LRDecayEvery < 1:
		return invalid("lr_decay_every", c.LRDecayEvery, "must be at least 1 when decay is enabled")
	case c.MinLearningRate < 0:
		return invalid("min_learning_rate", c.MinLearningRate, "must not be negative")
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return fmt.Errorf("%w: %s=%v %s", ErrInvalidConfig, field, value, reason)
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (cfg Config, err error) {
	//nolint:gosec // G304: config path comes from the command line
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return LoadConfig(f)
}
