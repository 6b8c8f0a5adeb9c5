package optim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/letternet/internal/nn"
	"github.com/born-ml/letternet/internal/optim"
)

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // Deterministic test data
}

// singleLayer returns a 2→1 sigmoid network with known parameters.
func singleLayer(t *testing.T) *nn.Network {
	t.Helper()
	net, err := nn.NewNetwork(nn.Sizes(2, 1), newRNG(1))
	require.NoError(t, err)
	require.NoError(t, net.Layers()[0].SetParameters(
		mat.NewDense(1, 2, []float64{0.5, -0.25}),
		mat.NewVecDense(1, []float64{0.1}),
	))
	return net
}

func forwardBackward(t *testing.T, net *nn.Network, input, target []float64, dropout float64, rng *rand.Rand) (*nn.Trace, *nn.Gradients) {
	t.Helper()
	trace, err := net.ForwardTrain(input, dropout, rng)
	require.NoError(t, err)
	grads, err := net.Backward(trace, target)
	require.NoError(t, err)
	return trace, grads
}

// TestSGD_SimpleUpdate checks W += lr·δ·xᵀ and b += lr·δ.
func TestSGD_SimpleUpdate(t *testing.T) {
	net := singleLayer(t)
	input := []float64{1, 2}
	trace, grads := forwardBackward(t, net, input, []float64{1}, 0, nil)
	delta := grads.Deltas[0].AtVec(0)
	require.Greater(t, delta, 0.0)

	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	require.NoError(t, opt.Step(net, trace, grads))

	w, b := net.Layers()[0].Parameters()
	assert.InDelta(t, 0.5+0.1*delta*1, w.At(0, 0), 1e-15)
	assert.InDelta(t, -0.25+0.1*delta*2, w.At(0, 1), 1e-15)
	assert.InDelta(t, 0.1+0.1*delta, b.AtVec(0), 1e-15)
}

// TestSGD_WeightDecay checks W = (W + lr·δ·xᵀ)·(1 - lr·λ) with biases untouched
// by the decay.
func TestSGD_WeightDecay(t *testing.T) {
	net := singleLayer(t)
	trace, grads := forwardBackward(t, net, []float64{1, 2}, []float64{0}, 0, nil)
	delta := grads.Deltas[0].AtVec(0)

	opt := optim.NewSGD(optim.SGDConfig{LR: 0.2, L2: 0.5})
	require.NoError(t, opt.Step(net, trace, grads))

	decay := 1 - 0.2*0.5
	w, b := net.Layers()[0].Parameters()
	assert.InDelta(t, (0.5+0.2*delta*1)*decay, w.At(0, 0), 1e-15)
	assert.InDelta(t, (-0.25+0.2*delta*2)*decay, w.At(0, 1), 1e-15)
	assert.InDelta(t, 0.1+0.2*delta, b.AtVec(0), 1e-15)
}

func TestSGD_DecayBias(t *testing.T) {
	net := singleLayer(t)
	trace, grads := forwardBackward(t, net, []float64{1, 2}, []float64{0}, 0, nil)
	delta := grads.Deltas[0].AtVec(0)

	opt := optim.NewSGD(optim.SGDConfig{LR: 0.2, L2: 0.5, DecayBias: true})
	require.NoError(t, opt.Step(net, trace, grads))

	_, b := net.Layers()[0].Parameters()
	assert.InDelta(t, (0.1+0.2*delta)*0.9, b.AtVec(0), 1e-15)
}

// TestSGD_DroppedUnitsUnchanged checks that rows of dropped hidden units are
// neither updated nor decayed.
func TestSGD_DroppedUnitsUnchanged(t *testing.T) {
	net, err := nn.NewNetwork(nn.Sizes(3, 40, 2), newRNG(3))
	require.NoError(t, err)
	before := net.Snapshot()

	trace, grads := forwardBackward(t, net, []float64{1, -1, 0.5}, nn.OneHot(1, 2), 0.5, newRNG(4))
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.5, L2: 0.01})
	require.NoError(t, opt.Step(net, trace, grads))

	hidden := trace.Layers[0]
	w, b := net.Layers()[0].Parameters()
	dropped := 0
	for r := 0; r < 40; r++ {
		if !hidden.Dropped(r) {
			continue
		}
		dropped++
		assert.Equal(t, mat.Row(nil, r, before.Weights[0]), mat.Row(nil, r, w), "row %d", r)
		assert.Equal(t, before.Biases[0].AtVec(r), b.AtVec(r), "bias %d", r)
	}
	assert.Positive(t, dropped)
}

func TestSGD_MismatchedTrace(t *testing.T) {
	net := singleLayer(t)
	other, err := nn.NewNetwork(nn.Sizes(2, 2, 1), newRNG(1))
	require.NoError(t, err)
	trace, grads := forwardBackward(t, other, []float64{1, 2}, []float64{1}, 0, nil)

	opt := optim.NewSGD(optim.SGDConfig{})
	require.ErrorIs(t, opt.Step(net, trace, grads), nn.ErrDimensionMismatch)
	require.ErrorIs(t, opt.Step(net, nil, nil), nn.ErrDimensionMismatch)
}

func TestSGD_Defaults(t *testing.T) {
	opt := optim.NewSGD(optim.SGDConfig{})
	assert.Equal(t, 0.1, opt.GetLR())
	assert.Equal(t, 0.0, opt.L2())

	opt.SetLR(0.01)
	assert.Equal(t, 0.01, opt.GetLR())

	var _ optim.Optimizer = opt
}

// TestSGD_ReducesLoss runs a few steps on one sample and expects the loss to fall.
func TestSGD_ReducesLoss(t *testing.T) {
	net, err := nn.NewNetwork(nn.Sizes(4, 5, 3).WithOutput(nn.ActivationSoftmax), newRNG(8))
	require.NoError(t, err)
	input, target := []float64{1, 0, 1, 1}, nn.OneHot(2, 3)

	loss := func() float64 {
		out, err := net.Forward(input)
		require.NoError(t, err)
		l, err := net.Loss(out, target)
		require.NoError(t, err)
		return l
	}

	start := loss()
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.5})
	for i := 0; i < 20; i++ {
		trace, grads := forwardBackward(t, net, input, target, 0, nil)
		require.NoError(t, opt.Step(net, trace, grads))
	}
	assert.Less(t, loss(), start)
}

func TestPlateauScheduler(t *testing.T) {
	opt := optim.NewSGD(optim.SGDConfig{LR: 1})
	sched := optim.PlateauScheduler{Factor: 0.5, Every: 3, MinLR: 0.2}
	require.True(t, sched.Enabled())

	var decays []float64
	for _, noImprove := range []int{0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 6, 9} {
		if lr, ok := sched.Observe(noImprove, opt); ok {
			decays = append(decays, lr)
		}
	}
	assert.Equal(t, []float64{0.5, 0.25, 0.2}, decays)
	assert.Equal(t, 0.2, opt.GetLR(), "learning rate never drops below MinLR")
}

func TestPlateauSchedulerDisabled(t *testing.T) {
	for _, sched := range []optim.PlateauScheduler{
		{},
		{Factor: 0.5, Every: 0},
		{Factor: 1, Every: 2},
	} {
		assert.False(t, sched.Enabled())
		opt := optim.NewSGD(optim.SGDConfig{LR: 0.3})
		for i := 0; i < 10; i++ {
			_, ok := sched.Observe(i, opt)
			assert.False(t, ok)
		}
		assert.Equal(t, 0.3, opt.GetLR())
	}
}
