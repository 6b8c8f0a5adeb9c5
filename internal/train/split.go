package train

import (
	"math/rand"

	"github.com/born-ml/letternet/internal/nn"
)

// Split shuffles samples with rng and holds out floor(len*fraction) of them
// for validation. The input slice is not modified.
//
// When no sample is held out, validation is empty and callers validate on
// the training split.
func Split(samples []nn.Sample, fraction float64, rng *rand.Rand) (training, validation []nn.Sample) {
	order := rng.Perm(len(samples))
	nVal := int(float64(len(samples)) * fraction)

	validation = make([]nn.Sample, 0, nVal)
	training = make([]nn.Sample, 0, len(samples)-nVal)
	for i, idx := range order {
		if i < nVal {
			validation = append(validation, samples[idx])
			continue
		}
		training = append(training, samples[idx])
	}
	return training, validation
}

// batches returns the [start,end) bounds of consecutive batches of size n.
func batches(total, n int) [][2]int {
	out := make([][2]int, 0, (total+n-1)/n)
	for start := 0; start < total; start += n {
		end := start + n
		if end > total {
			end = total
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
