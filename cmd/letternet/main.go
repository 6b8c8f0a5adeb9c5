// Package main provides the letternet CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/letternet/internal/eval"
	"github.com/born-ml/letternet/internal/nn"
	"github.com/born-ml/letternet/internal/serialization"
	"github.com/born-ml/letternet/internal/train"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "letternet: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "letternet %s\n", version)
		return nil
	case "inspect":
		return inspect(args[1:], stdout, stderr)
	case "predict":
		return predict(args[1:], stdout, stderr)
	case "xor":
		return xor(ctx, args[1:], stdout, stderr)
	default:
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "letternet - feedforward letter classifier")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version                          Show version")
	fmt.Fprintln(w, "  inspect <model>                  Print architecture and hyperparameters")
	fmt.Fprintln(w, "  predict -model <path> -input v,… Print output probabilities and class")
	fmt.Fprintln(w, "  xor [-config f] [-out path]      Train the 2-2-1 XOR network")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func inspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: letternet inspect <model>")
		return errUsage
	}

	m, err := serialization.ReadFile(fs.Arg(0), serialization.ReadOptions{Logger: newLogger(stderr, true)})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "format version: %d\n", m.Version)
	fmt.Fprintf(stdout, "input size:     %d\n", m.InputSize)
	for i, size := range m.LayerSizes {
		fmt.Fprintf(stdout, "layer %d:        %d units, %s\n", i, size, nn.Activation(m.Activations[i]))
	}
	fmt.Fprintf(stdout, "parameters:     %d\n", m.ParameterCount())
	fmt.Fprintf(stdout, "learning rate:  %g\n", m.LearningRate)
	fmt.Fprintf(stdout, "dropout rate:   %g\n", m.DropoutRate)
	if len(m.Migrated) > 0 {
		fmt.Fprintf(stdout, "migrated:       %s\n", strings.Join(m.Migrated, ", "))
	}
	return nil
}

func predict(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelPath := fs.String("model", "", "path to a .lnet model")
	input := fs.String("input", "", "comma-separated input vector")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *modelPath == "" || *input == "" {
		fs.Usage()
		return errUsage
	}

	vec, err := parseVector(*input)
	if err != nil {
		return err
	}
	net, err := nn.Load(*modelPath, serialization.ReadOptions{Logger: newLogger(stderr, false)})
	if err != nil {
		return err
	}
	probs, err := net.Probabilities(vec)
	if err != nil {
		return err
	}
	for i, p := range probs {
		fmt.Fprintf(stdout, "%d\t%.6f\n", i, p)
	}
	fmt.Fprintf(stdout, "class\t%d\n", nn.ClassOf(probs))
	return nil
}

func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	vec := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("input element %d: %w", i, err)
		}
		vec[i] = v
	}
	return vec, nil
}

// xorSamples is the XOR truth table with scalar targets.
func xorSamples() []nn.Sample {
	return []nn.Sample{
		{Input: []float64{0, 0}, Target: []float64{0}},
		{Input: []float64{0, 1}, Target: []float64{1}},
		{Input: []float64{1, 0}, Target: []float64{1}},
		{Input: []float64{1, 1}, Target: []float64{0}},
	}
}

// xorConfig trains on all four points with no held-out split.
func xorConfig() train.Config {
	cfg := train.DefaultConfig()
	cfg.LearningRate = 0.5
	cfg.Epochs = 10000
	cfg.BatchSize = 4
	cfg.ValidationSplit = 0
	cfg.ValidationEvery = 100
	cfg.Patience = 0
	return cfg
}

func xor(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML training config (defaults tuned for XOR)")
	out := fs.String("out", "", "save the trained model to this path")
	verbose := fs.Bool("v", false, "log training progress")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := xorConfig()
	if *configPath != "" {
		loaded, err := train.LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Logger = newLogger(stderr, *verbose)

	//nolint:gosec // Deterministic seed for reproducible runs
	net, err := nn.NewNetwork(nn.Sizes(2, 2, 1), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	samples := xorSamples()
	report, err := train.Train(ctx, net, samples, cfg)
	if err != nil {
		return err
	}

	acc, err := eval.Accuracy(net, samples)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "run %s: %d epochs, best epoch %d, loss %.6f, accuracy %.2f\n",
		report.RunID, len(report.Epochs), report.BestEpoch, report.BestValidationLoss, acc)
	for _, s := range samples {
		o, err := net.Forward(s.Input)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%v -> %.4f\n", s.Input, o[0])
	}

	if *out != "" {
		if err := net.Save(*out); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved %s\n", *out)
	}
	return nil
}
