package nn

import "math"

// probFloor keeps log() finite when a predicted probability underflows to zero.
const probFloor = 1e-15

// MSE returns the squared error Σ 0.5(t-o)² summed over output units.
//
// Callers average it over a dataset when reporting epoch or validation loss.
func MSE(output, target []float64) float64 {
	var loss float64
	for i, o := range output {
		d := target[i] - o
		loss += 0.5 * d * d
	}
	return loss
}

// CrossEntropy returns -Σ t·log(o), with o floored at 1e-15.
func CrossEntropy(output, target []float64) float64 {
	var loss float64
	for i, o := range output {
		if target[i] == 0 {
			continue
		}
		loss -= target[i] * math.Log(math.Max(o, probFloor))
	}
	return loss
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
