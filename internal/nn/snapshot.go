package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is a deep copy of every weight matrix and bias vector of a Network.
//
// The trainer keeps the snapshot taken at the best validation check and
// restores it when training ends.
type Snapshot struct {
	Weights []*mat.Dense
	Biases  []*mat.VecDense
}

// Snapshot copies the current parameters.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{
		Weights: make([]*mat.Dense, len(n.layers)),
		Biases:  make([]*mat.VecDense, len(n.layers)),
	}
	for i, l := range n.layers {
		s.Weights[i] = mat.DenseCopyOf(l.weights)
		s.Biases[i] = mat.VecDenseCopyOf(l.bias)
	}
	return s
}

// Restore copies the snapshot back into the network's layers.
func (n *Network) Restore(s *Snapshot) error {
	if s == nil || len(s.Weights) != len(n.layers) || len(s.Biases) != len(n.layers) {
		return ErrSnapshotMismatch
	}
	for i, l := range n.layers {
		if err := l.SetParameters(s.Weights[i], s.Biases[i]); err != nil {
			return fmt.Errorf("%w: layer %d: %w", ErrSnapshotMismatch, i, err)
		}
	}
	return nil
}

// Equal reports whether two snapshots hold exactly the same values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Weights) != len(other.Weights) || len(s.Biases) != len(other.Biases) {
		return false
	}
	for i := range s.Weights {
		if !mat.Equal(s.Weights[i], other.Weights[i]) || !mat.Equal(s.Biases[i], other.Biases[i]) {
			return false
		}
	}
	return true
}
