package train

import (
	"math"

	"github.com/google/uuid"
)

// EpochStats records the metrics of one epoch.
type EpochStats struct {
	Epoch        int
	Loss         float64 // Mean training loss (training mode, dropout applied)
	Accuracy     float64 // Training accuracy over the same forward passes
	LearningRate float64 // Learning rate used during the epoch

	// Validation fields are set only when Validated is true.
	Validated          bool
	ValidationLoss     float64
	ValidationAccuracy float64
	Improved           bool // The check set a new best validation loss
}

// Report is the outcome of a training run.
type Report struct {
	RunID  uuid.UUID
	Epochs []EpochStats

	// BestEpoch is the epoch whose weights were restored, 0 if no validation
	// check ran (the final weights are then kept).
	BestEpoch              int
	BestValidationLoss     float64
	BestValidationAccuracy float64

	StoppedEarly      bool
	FinalLearningRate float64
}

func newReport(id uuid.UUID, epochs int) *Report {
	return &Report{
		RunID:              id,
		Epochs:             make([]EpochStats, 0, epochs),
		BestValidationLoss: math.Inf(1),
	}
}

// Last returns the stats of the final epoch that ran.
func (r *Report) Last() EpochStats {
	if len(r.Epochs) == 0 {
		return EpochStats{}
	}
	return r.Epochs[len(r.Epochs)-1]
}

// Losses returns the training loss of every epoch, in order.
func (r *Report) Losses() []float64 {
	losses := make([]float64, len(r.Epochs))
	for i, e := range r.Epochs {
		losses[i] = e.Loss
	}
	return losses
}
