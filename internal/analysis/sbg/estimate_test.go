package sbg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnkit/domain/core"
	"churnkit/domain/retention"
)

// The worked example from Fader & Hardie's "How to Project Customer
// Retention": a 1000-customer cohort observed over seven annual renewals.
func highEndCohort() retention.ObservationSeries {
	return retention.ObservationSeries{
		Active: []float64{869, 743, 653, 593, 551, 517, 491},
		Lost:   []float64{131, 126, 90, 60, 42, 34, 26},
	}
}

func TestObjective_FiniteAtValidPoint(t *testing.T) {
	obj, err := NewObjective(highEndCohort())
	require.NoError(t, err)

	nll := obj.NegLogLikelihood(1, 1)
	assert.False(t, math.IsInf(nll, 0))
	assert.False(t, math.IsNaN(nll))
	assert.Greater(t, nll, 0.0)
}

func TestObjective_PenalizesInvalidRegion(t *testing.T) {
	obj, err := NewObjective(highEndCohort())
	require.NoError(t, err)

	cases := []struct{ alpha, beta float64 }{
		{-1, 2},
		{0, 1},
		{1, 0},
		{2, -0.5},
		{math.NaN(), 1},
	}
	for _, tc := range cases {
		nll := obj.NegLogLikelihood(tc.alpha, tc.beta)
		assert.True(t, math.IsInf(nll, 1), "alpha=%v beta=%v", tc.alpha, tc.beta)
	}
}

func TestNewObjective_ShapeMismatch(t *testing.T) {
	series := retention.ObservationSeries{
		Active: []float64{869, 743},
		Lost:   []float64{131},
	}
	_, err := NewObjective(series)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestFit_HighEndCohort(t *testing.T) {
	fit, err := Fit(highEndCohort(), DefaultFitConfig())
	require.NoError(t, err)

	assert.True(t, fit.Converged)
	assert.InDelta(t, 0.668, fit.Params.Alpha, 0.01)
	assert.InDelta(t, 3.802, fit.Params.Beta, 0.02)
	assert.InDelta(t, 1611.16, fit.NegLogLikelihood, 0.5)
}

func TestFit_Deterministic(t *testing.T) {
	first, err := Fit(highEndCohort(), DefaultFitConfig())
	require.NoError(t, err)
	second, err := Fit(highEndCohort(), DefaultFitConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Params, second.Params)
	assert.Equal(t, first.NegLogLikelihood, second.NegLogLikelihood)
	assert.Equal(t, first.Iterations, second.Iterations)
}

func TestFit_ShapeMismatchBeforeOptimization(t *testing.T) {
	series := retention.ObservationSeries{
		Active: []float64{869, 743, 653},
		Lost:   []float64{131, 126},
	}
	_, err := Fit(series, DefaultFitConfig())
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestFit_BudgetExhaustionSurfacesNonConvergence(t *testing.T) {
	cfg := DefaultFitConfig()
	cfg.MaxIterations = 3
	cfg.MaxEvaluations = 5

	fit, err := Fit(highEndCohort(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNonConvergence)
	assert.False(t, fit.Converged)
	// Best-found parameters still travel with the failure.
	assert.NotZero(t, fit.Params.Alpha)
	assert.NotZero(t, fit.Params.Beta)
}

func TestFit_CustomStartingPoint(t *testing.T) {
	cfg := DefaultFitConfig()
	cfg.InitialAlpha = 2
	cfg.InitialBeta = 5

	fit, err := Fit(highEndCohort(), cfg)
	require.NoError(t, err)
	// Different start, same optimum.
	assert.InDelta(t, 0.668, fit.Params.Alpha, 0.01)
	assert.InDelta(t, 3.802, fit.Params.Beta, 0.02)
}
