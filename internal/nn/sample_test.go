package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSample(t *testing.T) {
	s, err := NewSample([]float64{1, 0}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, s.Target)

	_, err = NewSample(nil, 3, 3)
	require.ErrorIs(t, err, ErrInvalidTarget)
	_, err = NewSample(nil, -1, 3)
	require.ErrorIs(t, err, ErrInvalidTarget)
	_, err = NewSample(nil, 0, 0)
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name   string
		target []float64
		ok     bool
	}{
		{"one-hot", []float64{0, 1, 0}, true},
		{"binary zero", []float64{0}, true},
		{"binary one", []float64{1}, true},
		{"empty", nil, false},
		{"all zero", []float64{0, 0, 0}, false},
		{"two hot", []float64{1, 1, 0}, false},
		{"soft label", []float64{0.2, 0.8}, false},
		{"binary soft", []float64{0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidTarget)
		})
	}
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, 1, ClassOf([]float64{0.1, 0.7, 0.2}))
	assert.Equal(t, 0, ClassOf([]float64{0.4, 0.4, 0.2}), "ties resolve to lowest index")
	assert.Equal(t, 2, ClassOf(OneHot(2, 3)))
	assert.Equal(t, 1, ClassOf([]float64{0.5}))
	assert.Equal(t, 0, ClassOf([]float64{0.49}))
	assert.Equal(t, -1, ClassOf(nil))

	assert.Equal(t, 2, NumClasses(1))
	assert.Equal(t, 3, NumClasses(3))
}
