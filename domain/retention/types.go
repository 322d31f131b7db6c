package retention

import (
	"churnkit/domain/core"
)

// ObservationSeries holds one cohort's observed counts, indexed by period 1..T.
// Active[t-1] is the number of customers still active at the end of period t;
// Lost[t-1] is the number that churned during period t.
type ObservationSeries struct {
	Active []float64 `json:"active"`
	Lost   []float64 `json:"lost"`
}

// Periods returns T, the number of observed periods.
func (s ObservationSeries) Periods() int {
	return len(s.Active)
}

// Validate checks the series shape invariants: equal lengths, at least one
// period, non-negative counts.
func (s ObservationSeries) Validate() error {
	if len(s.Active) != len(s.Lost) {
		return core.NewShapeMismatchError(len(s.Active), len(s.Lost))
	}
	if len(s.Active) == 0 {
		return core.ErrEmptySeries
	}
	for i, v := range s.Active {
		if v < 0 {
			return core.NewNegativeCountError("active", i+1, v)
		}
	}
	for i, v := range s.Lost {
		if v < 0 {
			return core.NewNegativeCountError("lost", i+1, v)
		}
	}
	return nil
}

// InitialSize returns the cohort size at period 0, reconstructed from the
// first period's survivors and losses.
func (s ObservationSeries) InitialSize() float64 {
	if len(s.Active) == 0 {
		return 0
	}
	return s.Active[0] + s.Lost[0]
}

// ObservedRetention returns the empirical per-period retention rates
// active_t / active_{t-1}, with active_0 taken as InitialSize. Periods whose
// predecessor count is zero yield a zero rate.
func (s ObservationSeries) ObservedRetention() []float64 {
	rates := make([]float64, len(s.Active))
	prev := s.InitialSize()
	for i, cur := range s.Active {
		if prev > 0 {
			rates[i] = cur / prev
		}
		prev = cur
	}
	return rates
}

// ShapeParams are the two shape parameters of the Beta distribution governing
// individual per-period churn propensity.
type ShapeParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Validate checks the positivity requirement for the probability kernel.
func (p ShapeParams) Validate() error {
	if p.Alpha <= 0 || p.Beta <= 0 {
		return core.ErrNonPositiveShape
	}
	return nil
}

// FitResult is the outcome of a maximum-likelihood parameter fit.
type FitResult struct {
	Params           ShapeParams `json:"params"`
	NegLogLikelihood float64     `json:"neg_log_likelihood"`
	Converged        bool        `json:"converged"`
	Status           string      `json:"status"`
	Iterations       int         `json:"iterations"`
	Evaluations      int         `json:"evaluations"`
}
