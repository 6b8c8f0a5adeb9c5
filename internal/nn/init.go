package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Xavier (Glorot) initialization for a weight matrix.
//
// Fills a rows×cols matrix with values drawn from the uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))) where fanIn = cols and
// fanOut = rows. This keeps sigmoid pre-activations out of the saturated
// region at the start of training.
//
// All draws come from rng so that initialization is reproducible.
func Xavier(rows, cols int, rng *rand.Rand) *mat.Dense {
	bound := math.Sqrt(6.0 / float64(rows+cols))

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return mat.NewDense(rows, cols, data)
}

// Zeros returns a zero vector of length n, used for bias initialization.
func Zeros(n int) *mat.VecDense {
	return mat.NewVecDense(n, nil)
}
