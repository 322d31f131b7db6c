package sbg

import (
	"math"

	"churnkit/domain/retention"
)

// Objective is the negative log-likelihood of an observed cohort under the
// sBG model. It captures the observation series at construction time so the
// same closure can be probed repeatedly by an optimizer without shared state.
type Objective struct {
	active []float64
	lost   []float64
}

// NewObjective validates the series shape and builds the objective. A shape
// mismatch or empty series is reported here, before any optimization starts.
func NewObjective(series retention.ObservationSeries) (*Objective, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return &Objective{active: series.Active, lost: series.Lost}, nil
}

// Periods returns the number of observed periods T.
func (o *Objective) Periods() int {
	return len(o.active)
}

// NegLogLikelihood evaluates the objective at (alpha, beta):
//
//	-( sum_t lost[t]*ln P(T=t) + active[T]*ln S(T) )
//
// The search is unconstrained, so the optimizer will probe points where the
// model is undefined (non-positive alpha/beta, probabilities underflowing to
// zero or below). Those points evaluate to +Inf so the line search rejects
// them and moves on; they are never an error.
func (o *Objective) NegLogLikelihood(alpha, beta float64) float64 {
	if alpha <= 0 || beta <= 0 {
		return math.Inf(1)
	}

	T := len(o.active)
	churn := churnSeries(alpha, beta, T)

	ll := 0.0
	remaining := 1.0
	for t := 1; t <= T; t++ {
		p := churn[t-1]
		remaining -= p
		if p <= 0 {
			return math.Inf(1)
		}
		ll += o.lost[t-1] * math.Log(p)
	}
	if remaining <= 0 {
		return math.Inf(1)
	}
	ll += o.active[T-1] * math.Log(remaining)

	if math.IsNaN(ll) {
		return math.Inf(1)
	}
	return -ll
}
