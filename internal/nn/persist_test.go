package nn

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/letternet/internal/serialization"
)

func assertSameOutputs(t *testing.T, want, got *Network, inputs [][]float64) {
	t.Helper()
	for _, in := range inputs {
		a, err := want.Forward(in)
		require.NoError(t, err)
		b, err := got.Forward(in)
		require.NoError(t, err)
		assert.InDeltaSlice(t, a, b, 1e-12)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	net, err := NewNetwork(letterArch(), newRNG(21))
	require.NoError(t, err)
	net.SetHyper(0.05, 0.2)

	path := filepath.Join(t.TempDir(), "letters.lnet")
	require.NoError(t, net.Save(path))

	loaded, err := Load(path, serialization.ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, net.Architecture(), loaded.Architecture())
	assert.Equal(t, 0.05, loaded.LearningRate())
	assert.Equal(t, 0.2, loaded.DropoutRate())
	assert.True(t, net.Snapshot().Equal(loaded.Snapshot()))

	inputs := [][]float64{make([]float64, 35), make([]float64, 35)}
	for i := range inputs[1] {
		inputs[1][i] = 1
	}
	assertSameOutputs(t, net, loaded, inputs)
}

func TestEncodeRead(t *testing.T) {
	net, err := NewNetwork(Sizes(2, 2, 1), newRNG(5))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, net.Encode(&buf))

	got, err := Read(&buf, serialization.ReadOptions{})
	require.NoError(t, err)
	assertSameOutputs(t, net, got, [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
}

func TestLoadLegacyModel(t *testing.T) {
	net, err := NewNetwork(Sizes(2, 3, 1), newRNG(6))
	require.NoError(t, err)
	net.SetHyper(0.3, 0)

	var buf bytes.Buffer
	require.NoError(t, serialization.WriteLegacy(&buf, net.Model()))
	path := filepath.Join(t.TempDir(), "legacy.lnet")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	loaded, err := Load(path, serialization.ReadOptions{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, 0.0, loaded.DropoutRate())
	assert.Equal(t, 0.3, loaded.LearningRate())
	assert.Equal(t, Sizes(2, 3, 1), loaded.Architecture())
	assertSameOutputs(t, net, loaded, [][]float64{{0, 1}, {1, 1}})
	assert.Contains(t, logs.String(), "migrated legacy model")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.lnet"), serialization.ReadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromModelRejectsHiddenSoftmax(t *testing.T) {
	net, err := NewNetwork(Sizes(2, 2, 2), newRNG(1))
	require.NoError(t, err)
	m := net.Model()
	m.Activations[0] = serialization.ActivationSoftmax

	_, err = FromModel(m)
	require.ErrorIs(t, err, ErrInvalidArchitecture)
}

func TestModelDoesNotAlias(t *testing.T) {
	net, err := NewNetwork(Sizes(2, 2), newRNG(1))
	require.NoError(t, err)
	m := net.Model()
	m.Weights[0][0] = 99

	w, _ := net.Layers()[0].Parameters()
	assert.NotEqual(t, 99.0, w.At(0, 0))
}
