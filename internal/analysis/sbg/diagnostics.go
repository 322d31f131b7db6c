package sbg

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"churnkit/domain/core"
	"churnkit/domain/retention"
)

// Diagnostics compares the fitted retention curve against the observed one
// over the cohort's T periods.
type Diagnostics struct {
	ObservedRetention []float64 `json:"observed_retention"`
	FittedRetention   []float64 `json:"fitted_retention"`
	MAE               float64   `json:"mae"`
	RMSE              float64   `json:"rmse"`
}

// ComputeDiagnostics evaluates fit quality for a fitted (alpha, beta) against
// the observed series. The series must be valid and the parameters positive.
func ComputeDiagnostics(series retention.ObservationSeries, alpha, beta float64) (Diagnostics, error) {
	if err := series.Validate(); err != nil {
		return Diagnostics{}, err
	}
	if alpha <= 0 || beta <= 0 {
		return Diagnostics{}, core.ErrNonPositiveShape
	}

	T := series.Periods()
	periods := make([]int, T)
	for i := range periods {
		periods[i] = i + 1
	}
	fitted, err := RetentionRates(alpha, beta, periods)
	if err != nil {
		return Diagnostics{}, err
	}
	observed := series.ObservedRetention()

	absErrs := make([]float64, T)
	sqErrs := make([]float64, T)
	for i := range fitted {
		diff := fitted[i] - observed[i]
		absErrs[i] = math.Abs(diff)
		sqErrs[i] = diff * diff
	}
	mae, _ := stats.Mean(absErrs)
	mse, _ := stats.Mean(sqErrs)

	return Diagnostics{
		ObservedRetention: observed,
		FittedRetention:   fitted,
		MAE:               mae,
		RMSE:              math.Sqrt(mse),
	}, nil
}

// PropensitySummary describes the fitted Beta(alpha, beta) distribution over
// individual per-period churn probability.
type PropensitySummary struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
}

// SummarizePropensity reports the moments of the churn-propensity mixing
// distribution implied by the fitted shape parameters.
func SummarizePropensity(alpha, beta float64) (PropensitySummary, error) {
	if alpha <= 0 || beta <= 0 {
		return PropensitySummary{}, core.ErrNonPositiveShape
	}
	dist := distuv.Beta{Alpha: alpha, Beta: beta}
	return PropensitySummary{
		Mean:     dist.Mean(),
		Variance: dist.Variance(),
		StdDev:   dist.StdDev(),
	}, nil
}
