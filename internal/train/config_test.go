package train

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.1, cfg.LearningRate)
	assert.Equal(t, 100, cfg.Epochs)
	assert.Equal(t, 10, cfg.Patience)
	assert.Equal(t, 0.2, cfg.ValidationSplit)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }, "learning_rate"},
		{"negative epochs", func(c *Config) { c.Epochs = -1 }, "epochs"},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, "batch_size"},
		{"dropout one", func(c *Config) { c.DropoutRate = 1 }, "dropout_rate"},
		{"negative dropout", func(c *Config) { c.DropoutRate = -0.1 }, "dropout_rate"},
		{"negative l2", func(c *Config) { c.L2Lambda = -1 }, "l2_lambda"},
		{"l2 flips sign", func(c *Config) { c.LearningRate, c.L2Lambda = 0.5, 2 }, "l2_lambda"},
		{"negative patience", func(c *Config) { c.Patience = -1 }, "patience"},
		{"split one", func(c *Config) { c.ValidationSplit = 1 }, "validation_split"},
		{"zero validation every", func(c *Config) { c.ValidationEvery = 0 }, "validation_every"},
		{"decay factor one", func(c *Config) { c.LRDecayFactor = 1 }, "lr_decay_factor"},
		{"decay without trigger", func(c *Config) { c.LRDecayFactor, c.LRDecayEvery = 0.5, 0 }, "lr_decay_every"},
		{"negative min lr", func(c *Config) { c.MinLearningRate = -1 }, "min_learning_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	doc := `
learning_rate: 0.05
epochs: 500
batch_size: 16
dropout_rate: 0.2
l2_lambda: 0.0001
patience: 20
validation_split: 0.25
validation_every: 5
lr_decay_factor: 0.5
lr_decay_every: 2
seed: 42
checkpoint_path: best.lnet
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.LearningRate)
	assert.Equal(t, 500, cfg.Epochs)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 0.2, cfg.DropoutRate)
	assert.Equal(t, 0.0001, cfg.L2Lambda)
	assert.Equal(t, 20, cfg.Patience)
	assert.Equal(t, 0.25, cfg.ValidationSplit)
	assert.Equal(t, 5, cfg.ValidationEvery)
	assert.Equal(t, 0.5, cfg.LRDecayFactor)
	assert.Equal(t, 2, cfg.LRDecayEvery)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "best.lnet", cfg.CheckpointPath)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("epochs: 7\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Epochs = 7
	assert.Equal(t, want.LearningRate, cfg.LearningRate)
	assert.Equal(t, want.Patience, cfg.Patience)
	assert.Equal(t, 7, cfg.Epochs)

	cfg, err = LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Epochs, cfg.Epochs)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":  "learning_rte: 0.1\n",
		"wrong type":   "epochs: many\n",
		"out of range": "dropout_rate: 1.5\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte("learning_rate: 0.3\nseed: 9\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.LearningRate)
	assert.Equal(t, int64(9), cfg.Seed)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
