package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "letternet "+version+"\n", out)
}

func TestUsage(t *testing.T) {
	_, stderr, err := runCLI(t)
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "Commands:")

	_, _, err = runCLI(t, "train-gui")
	require.ErrorIs(t, err, errUsage)

	_, _, err = runCLI(t, "predict", "-model", "x.lnet")
	require.ErrorIs(t, err, errUsage)
}

func TestXORInspectPredict(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "xor.yaml")
	modelPath := filepath.Join(dir, "xor.lnet")
	cfg := "learning_rate: 0.5\nepochs: 40\nbatch_size: 4\nvalidation_split: 0\npatience: 0\nvalidation_every: 10\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, _, err := runCLI(t, "xor", "-config", cfgPath, "-out", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "40 epochs")
	assert.Contains(t, out, "saved "+modelPath)
	assert.Equal(t, 4, strings.Count(out, " -> "))

	out, _, err = runCLI(t, "inspect", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "format version: 2")
	assert.Contains(t, out, "input size:     2")
	assert.Contains(t, out, "layer 1:        1 units, sigmoid")
	assert.Contains(t, out, "parameters:     9")

	out, _, err = runCLI(t, "predict", "-model", modelPath, "-input", "1, 0")
	require.NoError(t, err)
	assert.Contains(t, out, "class\t")

	_, _, err = runCLI(t, "predict", "-model", modelPath, "-input", "1,x")
	require.Error(t, err)
	_, _, err = runCLI(t, "predict", "-model", modelPath, "-input", "1,0,1")
	require.Error(t, err)
}

func TestXORBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("epoch: 3\n"), 0o600))

	_, _, err := runCLI(t, "xor", "-config", cfgPath)
	require.Error(t, err)
}

func TestInspectMissing(t *testing.T) {
	_, _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "none.lnet"))
	require.Error(t, err)

	_, _, err = runCLI(t, "inspect")
	require.ErrorIs(t, err, errUsage)
}
