package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnkit/domain/core"
	"churnkit/domain/retention"
)

func highEndCohortRequest() CohortRequest {
	return CohortRequest{
		Name: "high-end",
		Series: retention.ObservationSeries{
			Active: []float64{869, 743, 653, 593, 551, 517, 491},
			Lost:   []float64{131, 126, 90, 60, 42, 34, 26},
		},
		DiscountRate:  0.1,
		RenewalCounts: []int{2, 3, 4},
	}
}

func TestAnalyzeCohort(t *testing.T) {
	service := NewRetentionService(0)

	report, err := service.AnalyzeCohort(context.Background(), highEndCohortRequest())
	require.NoError(t, err)

	assert.False(t, report.RunID.String() == "")
	assert.Equal(t, "high-end", report.Name)
	assert.True(t, report.Fit.Converged)
	assert.InDelta(t, 0.668, report.Fit.Params.Alpha, 0.01)
	assert.InDelta(t, 3.802, report.Fit.Params.Beta, 0.02)

	require.Len(t, report.Curve, 24)
	assert.Equal(t, 1, report.Curve[0].Period)
	require.NotNil(t, report.Curve[0].ObservedRetention)
	assert.InDelta(t, 0.869, *report.Curve[0].ObservedRetention, 1e-9)
	assert.Nil(t, report.Curve[10].ObservedRetention)

	assert.InDelta(t, 5.92, report.DEL, 0.02)
	require.Contains(t, report.DERL, 4)
	assert.InDelta(t, 6.89, report.DERL[4], 0.02)

	assert.Less(t, report.Diagnostics.MAE, 0.03)
	assert.Greater(t, report.Propensity.Mean, 0.0)
}

func TestAnalyzeCohort_ValidationErrors(t *testing.T) {
	service := NewRetentionService(0)
	ctx := context.Background()

	req := highEndCohortRequest()
	req.Series.Lost = req.Series.Lost[:3]
	_, err := service.AnalyzeCohort(ctx, req)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	req = highEndCohortRequest()
	req.DiscountRate = 1.5
	_, err = service.AnalyzeCohort(ctx, req)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	req = highEndCohortRequest()
	req.RenewalCounts = []int{1}
	_, err = service.AnalyzeCohort(ctx, req)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestAnalyzeCohort_NonConvergenceSurfaces(t *testing.T) {
	service := NewRetentionService(0)

	req := highEndCohortRequest()
	req.Fit.MaxIterations = 2
	req.Fit.MaxEvaluations = 4

	_, err := service.AnalyzeCohort(context.Background(), req)
	require.Error(t, err)
	assert.True(t, core.IsNonConvergenceError(err))
}

func TestAnalyzeCohorts_PreservesOrder(t *testing.T) {
	service := NewRetentionService(2)

	reqs := make([]CohortRequest, 4)
	for i := range reqs {
		reqs[i] = highEndCohortRequest()
		reqs[i].Name = string(rune('a' + i))
	}

	reports, err := service.AnalyzeCohorts(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	for i, report := range reports {
		assert.Equal(t, string(rune('a'+i)), report.Name)
		assert.True(t, report.Fit.Converged)
	}
}

func TestAnalyzeCohorts_FirstFailureWins(t *testing.T) {
	service := NewRetentionService(1)

	reqs := []CohortRequest{highEndCohortRequest(), {Name: "broken"}}
	_, err := service.AnalyzeCohorts(context.Background(), reqs)
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
}
