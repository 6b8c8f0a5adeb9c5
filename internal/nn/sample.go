package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Sample is one labelled training or evaluation example.
//
// Target is a one-hot vector for multi-class networks. Networks with a single
// output unit (binary problems such as XOR) use the scalar target 0 or 1.
// All-zero "unknown" targets are rejected.
type Sample struct {
	Input  []float64
	Target []float64
}

// OneHot returns a vector of length n with a 1 at index class.
func OneHot(class, n int) []float64 {
	v := make([]float64, n)
	if class >= 0 && class < n {
		v[class] = 1
	}
	return v
}

// NewSample builds a sample with a one-hot target for class.
func NewSample(input []float64, class, numClasses int) (Sample, error) {
	if numClasses < 1 {
		return Sample{}, fmt.Errorf("%w: %d classes", ErrInvalidTarget, numClasses)
	}
	if class < 0 || class >= numClasses {
		return Sample{}, fmt.Errorf("%w: class %d out of range [0,%d)", ErrInvalidTarget, class, numClasses)
	}
	return Sample{Input: input, Target: OneHot(class, numClasses)}, nil
}

// ValidateTarget checks that target is a well-formed label.
func ValidateTarget(target []float64) error {
	switch len(target) {
	case 0:
		return fmt.Errorf("%w: empty target", ErrInvalidTarget)
	case 1:
		if target[0] != 0 && target[0] != 1 {
			return fmt.Errorf("%w: binary target must be 0 or 1, got %v", ErrInvalidTarget, target[0])
		}
		return nil
	}
	ones := 0
	for i, v := range target {
		switch v {
		case 1:
			ones++
		case 0:
		default:
			return fmt.Errorf("%w: entry %d is %v, want 0 or 1", ErrInvalidTarget, i, v)
		}
	}
	if ones != 1 {
		return fmt.Errorf("%w: %d hot entries, want exactly 1", ErrInvalidTarget, ones)
	}
	return nil
}

// ClassOf maps an output or target vector to a class index.
//
// Vectors of length one are thresholded at 0.5 (class 0 or 1); longer vectors
// use argmax, with ties resolved to the lowest index.
func ClassOf(vec []float64) int {
	switch len(vec) {
	case 0:
		return -1
	case 1:
		if vec[0] >= 0.5 {
			return 1
		}
		return 0
	default:
		return floats.MaxIdx(vec)
	}
}

// NumClasses returns how many classes an output of the given width encodes.
func NumClasses(outputSize int) int {
	if outputSize == 1 {
		return 2
	}
	return outputSize
}
