package train

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/letternet/internal/nn"
)

// 5×7 bitmaps of the three letter classes.
var letterGlyphs = [3][7]string{
	{
		".###.",
		"#...#",
		"#...#",
		"#####",
		"#...#",
		"#...#",
		"#...#",
	},
	{
		"####.",
		"#...#",
		"#...#",
		"####.",
		"#...#",
		"#...#",
		"####.",
	},
	{
		".####",
		"#....",
		"#....",
		"#....",
		"#....",
		"#....",
		".####",
	},
}

// letterSamples returns perClass noisy copies of every glyph, each with two
// pixels flipped, labelled with one-hot targets.
func letterSamples(t *testing.T, perClass int, rng *rand.Rand) []nn.Sample {
	t.Helper()
	samples := make([]nn.Sample, 0, 3*perClass)
	for class, glyph := range letterGlyphs {
		base := make([]float64, 0, 35)
		for _, row := range glyph {
			for _, c := range row {
				if c == '#' {
					base = append(base, 1)
				} else {
					base = append(base, 0)
				}
			}
		}
		for i := 0; i < perClass; i++ {
			input := append([]float64(nil), base...)
			for f := 0; f < 2; f++ {
				p := rng.Intn(len(input))
				input[p] = 1 - input[p]
			}
			s, err := nn.NewSample(input, class, 3)
			require.NoError(t, err)
			samples = append(samples, s)
		}
	}
	return samples
}
