// Package sbg implements the shifted-beta-geometric survival model:
// probability kernel, retention rate, likelihood objective, maximum-likelihood
// parameter estimation, and discounted lifetime value aggregation.
//
// All functions are pure and stateless; they are safe to call concurrently
// from independent call sites.
package sbg

import (
	"churnkit/domain/core"
)

// churnSeries evaluates P(T=t) for t = 1..maxPeriod in a single bottom-up
// pass. P(T=1) = alpha/(alpha+beta); each later term multiplies the previous
// one by (beta+t-2)/(alpha+beta+t-1). Callers guarantee alpha, beta > 0 and
// maxPeriod >= 1.
func churnSeries(alpha, beta float64, maxPeriod int) []float64 {
	churn := make([]float64, maxPeriod)
	churn[0] = alpha / (alpha + beta)
	for t := 2; t <= maxPeriod; t++ {
		churn[t-1] = churn[t-2] * (beta + float64(t) - 2) / (alpha + beta + float64(t) - 1)
	}
	return churn
}

// survivalSeries evaluates S(t) for t = 1..maxPeriod by accumulating the
// churn series: S(1) = 1 - P(1), S(t) = S(t-1) - P(t).
func survivalSeries(alpha, beta float64, maxPeriod int) []float64 {
	churn := churnSeries(alpha, beta, maxPeriod)
	survival := make([]float64, maxPeriod)
	remaining := 1.0
	for i, p := range churn {
		remaining -= p
		survival[i] = remaining
	}
	return survival
}

func validateKernelArgs(alpha, beta float64, periods ...int) error {
	if alpha <= 0 || beta <= 0 {
		return core.ErrNonPositiveShape
	}
	for _, t := range periods {
		if t < 1 {
			return core.ErrInvalidPeriod
		}
	}
	return nil
}

func maxPeriod(periods []int) int {
	max := 0
	for _, t := range periods {
		if t > max {
			max = t
		}
	}
	return max
}

// ChurnProbability returns the probability that a customer who survived
// through period-1 churns exactly at period.
func ChurnProbability(alpha, beta float64, period int) (float64, error) {
	if err := validateKernelArgs(alpha, beta, period); err != nil {
		return 0, err
	}
	series := churnSeries(alpha, beta, period)
	return series[period-1], nil
}

// ChurnProbabilities is the vectorized form of ChurnProbability. The result
// matches the input periods in length and order. The underlying series is
// evaluated once up to the largest requested period.
func ChurnProbabilities(alpha, beta float64, periods []int) ([]float64, error) {
	if err := validateKernelArgs(alpha, beta, periods...); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}
	series := churnSeries(alpha, beta, maxPeriod(periods))
	out := make([]float64, len(periods))
	for i, t := range periods {
		out[i] = series[t-1]
	}
	return out, nil
}

// SurvivalProbability returns the probability that a customer has not churned
// by the end of period.
func SurvivalProbability(alpha, beta float64, period int) (float64, error) {
	if err := validateKernelArgs(alpha, beta, period); err != nil {
		return 0, err
	}
	series := survivalSeries(alpha, beta, period)
	return series[period-1], nil
}

// SurvivalProbabilities is the vectorized form of SurvivalProbability.
func SurvivalProbabilities(alpha, beta float64, periods []int) ([]float64, error) {
	if err := validateKernelArgs(alpha, beta, periods...); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}
	series := survivalSeries(alpha, beta, maxPeriod(periods))
	out := make([]float64, len(periods))
	for i, t := range periods {
		out[i] = series[t-1]
	}
	return out, nil
}

// RetentionRate returns the conditional probability of surviving period given
// survival through period-1: (beta+t-1) / (alpha+beta+t-1).
func RetentionRate(alpha, beta float64, period int) (float64, error) {
	if err := validateKernelArgs(alpha, beta, period); err != nil {
		return 0, err
	}
	t := float64(period)
	return (beta + t - 1) / (alpha + beta + t - 1), nil
}

// RetentionRates is the vectorized form of RetentionRate.
func RetentionRates(alpha, beta float64, periods []int) ([]float64, error) {
	if err := validateKernelArgs(alpha, beta, periods...); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}
	out := make([]float64, len(periods))
	for i, period := range periods {
		t := float64(period)
		out[i] = (beta + t - 1) / (alpha + beta + t - 1)
	}
	return out, nil
}
