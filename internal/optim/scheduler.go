package optim

// PlateauScheduler decays the learning rate while validation stops improving.
//
// Every time the no-improvement counter reaches a positive multiple of Every,
// the learning rate is multiplied by Factor, never going below MinLR.
// A Factor outside (0,1) or an Every below 1 disables the scheduler.
type PlateauScheduler struct {
	Factor float64
	Every  int
	MinLR  float64
}

// Enabled reports whether the scheduler will ever change the learning rate.
func (p PlateauScheduler) Enabled() bool {
	return p.Factor > 0 && p.Factor < 1 && p.Every >= 1
}

// Observe is called after every validation check with the current number of
// consecutive non-improving checks. It returns the learning rate now in
// effect and whether it was just decayed.
func (p PlateauScheduler) Observe(noImprove int, opt Optimizer) (float64, bool) {
	lr := opt.GetLR()
	if !p.Enabled() || noImprove == 0 || noImprove%p.Every != 0 {
		return lr, false
	}
	next := lr * p.Factor
	if next < p.MinLR {
		next = p.MinLR
	}
	if next == lr {
		return lr, false
	}
	opt.SetLR(next)
	return next, true
}
