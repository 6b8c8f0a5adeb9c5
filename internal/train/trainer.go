// Package train runs the epoch loop that fits a letternet network to a
// dataset: shuffling, online SGD updates, dropout, weight decay, periodic
// validation, early stopping, learning-rate decay and best-weights restore.
package train

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/born-ml/letternet/internal/nn"
	"github.com/born-ml/letternet/internal/optim"
)

// Trainer drives training runs with a fixed configuration.
//
// A Trainer may be reused for several runs, but a Network must only be
// trained by one run at a time.
type Trainer struct {
	cfg       Config
	validator Validator
	logger    *slog.Logger
}

// Option customizes a Trainer.
type Option func(*Trainer)

// WithValidator replaces the default DatasetValidator.
func WithValidator(v Validator) Option {
	return func(t *Trainer) {
		t.validator = v
	}
}

// New validates cfg and returns a Trainer.
func New(cfg Config, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trainer{
		cfg:       cfg,
		validator: DatasetValidator{},
		logger:    cfg.Logger,
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the trainer's configuration.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Train fits net to samples with the given configuration.
func Train(ctx context.Context, net *nn.Network, samples []nn.Sample, cfg Config) (*Report, error) {
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return t.Train(ctx, net, samples)
}

// run is the mutable state of one training call.
type run struct {
	*Trainer
	net        *nn.Network
	opt        *optim.SGD
	sched      optim.PlateauScheduler
	rng        *rand.Rand
	log        *slog.Logger
	report     *Report
	best       *nn.Snapshot
	noImprove  int
	training   []nn.Sample
	validation []nn.Sample
}

// Train fits net to samples.
//
// Every sample is validated against the network's sizes before the first
// update. Training stops after cfg.Epochs epochs, after cfg.Patience
// consecutive non-improving validation checks, or when ctx is done. In every
// case the weights captured at the best validation check are restored before
// returning, including when an error aborts the run.
//
// A non-finite loss aborts the run with nn.ErrNumericInstability before the
// offending update is applied.
func (t *Trainer) Train(ctx context.Context, net *nn.Network, samples []nn.Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}
	for i, s := range samples {
		if err := net.CheckSample(s); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	//nolint:gosec // Deterministic seed for reproducible runs
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	//nolint:gosec // Run IDs only need to be reproducible, not unpredictable
	runID, err := uuid.NewRandomFromReader(rand.New(rand.NewSource(t.cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}

	training, validation := Split(samples, t.cfg.ValidationSplit, rng)
	if len(training) == 0 {
		return nil, fmt.Errorf("%w: validation split %v leaves no training samples", ErrEmptyDataset, t.cfg.ValidationSplit)
	}
	if len(validation) == 0 {
		validation = training
	}

	r := &run{
		Trainer: t,
		net:     net,
		opt: optim.NewSGD(optim.SGDConfig{
			LR:        t.cfg.LearningRate,
			L2:        t.cfg.L2Lambda,
			DecayBias: t.cfg.DecayBias,
		}),
		sched: optim.PlateauScheduler{
			Factor: t.cfg.LRDecayFactor,
			Every:  t.cfg.LRDecayEvery,
			MinLR:  t.cfg.MinLearningRate,
		},
		rng:        rng,
		log:        t.logger.With("run_id", runID.String()),
		report:     newReport(runID, t.cfg.Epochs),
		training:   training,
		validation: validation,
	}
	net.SetHyper(t.cfg.LearningRate, t.cfg.DropoutRate)

	r.log.Info("training started",
		"samples", len(training),
		"validation_samples", len(r.validation),
		"epochs", t.cfg.Epochs,
		"learning_rate", t.cfg.LearningRate,
		"dropout_rate", t.cfg.DropoutRate,
	)

	loopErr := r.loop(ctx)

	if r.best != nil {
		if err := net.Restore(r.best); err != nil {
			return nil, fmt.Errorf("restore best weights: %w", err)
		}
	}
	r.report.FinalLearningRate = r.opt.GetLR()
	net.SetHyper(r.opt.GetLR(), t.cfg.DropoutRate)

	if loopErr != nil {
		return nil, loopErr
	}

	r.log.Info("training finished",
		"epochs_run", len(r.report.Epochs),
		"best_epoch", r.report.BestEpoch,
		"best_validation_loss", r.report.BestValidationLoss,
		"stopped_early", r.report.StoppedEarly,
	)
	return r.report, nil
}

func (r *run) loop(ctx context.Context) error {
	for epoch := 1; epoch <= r.cfg.Epochs; epoch++ {
		stats, err := r.epoch(ctx, epoch)
		if err != nil {
			return err
		}

		if epoch%r.cfg.ValidationEvery == 0 {
			if err := r.validate(&stats); err != nil {
				return err
			}
		}

		r.report.Epochs = append(r.report.Epochs, stats)
		if r.cfg.OnEpoch != nil {
			r.cfg.OnEpoch(stats)
		}

		if stats.Validated && r.cfg.Patience > 0 && r.noImprove >= r.cfg.Patience {
			r.report.StoppedEarly = true
			r.log.Info("early stopping",
				"epoch", epoch,
				"best_epoch", r.report.BestEpoch,
				"non_improving_checks", r.noImprove,
			)
			return nil
		}
	}
	return nil
}

// epoch shuffles the training split and applies one update per sample.
func (r *run) epoch(ctx context.Context, epoch int) (EpochStats, error) {
	r.rng.Shuffle(len(r.training), func(i, j int) {
		r.training[i], r.training[j] = r.training[j], r.training[i]
	})

	stats := EpochStats{Epoch: epoch, LearningRate: r.opt.GetLR()}
	var total float64
	correct := 0

	bounds := batches(len(r.training), r.cfg.BatchSize)
	for b, bound := range bounds {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		for i := bound[0]; i < bound[1]; i++ {
			loss, ok, err := r.step(r.training[i])
			if err != nil {
				return stats, fmt.Errorf("epoch %d, sample %d: %w", epoch, i, err)
			}
			total += loss
			if ok {
				correct++
			}
		}
		r.log.Debug("batch done", "epoch", epoch, "batch", b+1, "batches", len(bounds))
	}

	n := float64(len(r.training))
	stats.Loss = total / n
	stats.Accuracy = float64(correct) / n
	r.log.Debug("epoch done", "epoch", epoch, "loss", stats.Loss, "accuracy", stats.Accuracy, "lr", stats.LearningRate)
	return stats, nil
}

// step runs forward, backward and update for one sample. It returns the
// sample loss and whether the training-mode output classified it correctly.
func (r *run) step(s nn.Sample) (float64, bool, error) {
	trace, err := r.net.ForwardTrain(s.Input, r.cfg.DropoutRate, r.rng)
	if err != nil {
		return 0, false, err
	}
	out := trace.Output()
	loss, err := r.net.Loss(out, s.Target)
	if err != nil {
		return 0, false, err
	}
	if !nn.IsFinite(loss) {
		return 0, false, fmt.Errorf("%w: loss %v", nn.ErrNumericInstability, loss)
	}
	correct := nn.ClassOf(out) == nn.ClassOf(s.Target)

	grads, err := r.net.Backward(trace, s.Target)
	if err != nil {
		return 0, false, err
	}
	if err := r.opt.Step(r.net, trace, grads); err != nil {
		return 0, false, err
	}
	return loss, correct, nil
}

// validate scores the network, tracks the best snapshot and adjusts the
// learning rate.
func (r *run) validate(stats *EpochStats) error {
	m, err := r.validator.Validate(r.net, r.validation)
	if err != nil {
		return fmt.Errorf("epoch %d validation: %w", stats.Epoch, err)
	}
	if !nn.IsFinite(m.Loss) {
		return fmt.Errorf("epoch %d validation: %w: loss %v", stats.Epoch, nn.ErrNumericInstability, m.Loss)
	}

	stats.Validated = true
	stats.ValidationLoss = m.Loss
	stats.ValidationAccuracy = m.Accuracy

	if m.Loss < r.report.BestValidationLoss {
		stats.Improved = true
		r.noImprove = 0
		r.best = r.net.Snapshot()
		r.report.BestEpoch = stats.Epoch
		r.report.BestValidationLoss = m.Loss
		r.report.BestValidationAccuracy = m.Accuracy
		if err := r.checkpoint(stats.Epoch); err != nil {
			return err
		}
	} else {
		r.noImprove++
	}

	r.log.Info("validation",
		"epoch", stats.Epoch,
		"loss", m.Loss,
		"accuracy", m.Accuracy,
		"improved", stats.Improved,
		"non_improving_checks", r.noImprove,
	)

	if lr, decayed := r.sched.Observe(r.noImprove, r.opt); decayed {
		r.log.Info("learning rate decayed", "epoch", stats.Epoch, "lr", lr)
	}
	return nil
}

func (r *run) checkpoint(epoch int) error {
	if r.cfg.CheckpointPath == "" {
		return nil
	}
	r.net.SetHyper(r.opt.GetLR(), r.cfg.DropoutRate)
	if err := r.net.Save(r.cfg.CheckpointPath); err != nil {
		return fmt.Errorf("epoch %d checkpoint: %w", epoch, err)
	}
	r.log.Info("checkpoint saved", "epoch", epoch, "path", r.cfg.CheckpointPath)
	return nil
}
