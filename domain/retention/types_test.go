package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnkit/domain/core"
)

func TestObservationSeries_Validate(t *testing.T) {
	cases := []struct {
		name    string
		series  ObservationSeries
		wantErr error
	}{
		{
			name:   "valid",
			series: ObservationSeries{Active: []float64{869, 743}, Lost: []float64{131, 126}},
		},
		{
			name:    "length mismatch",
			series:  ObservationSeries{Active: []float64{869, 743}, Lost: []float64{131}},
			wantErr: core.ErrShapeMismatch,
		},
		{
			name:    "empty",
			series:  ObservationSeries{},
			wantErr: core.ErrEmptySeries,
		},
		{
			name:    "negative active",
			series:  ObservationSeries{Active: []float64{-1}, Lost: []float64{3}},
			wantErr: core.ErrNegativeCount,
		},
		{
			name:    "negative lost",
			series:  ObservationSeries{Active: []float64{10}, Lost: []float64{-3}},
			wantErr: core.ErrNegativeCount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.series.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.True(t, core.IsValidationError(err))
			}
		})
	}
}

func TestObservationSeries_ObservedRetention(t *testing.T) {
	series := ObservationSeries{
		Active: []float64{869, 743, 653},
		Lost:   []float64{131, 126, 90},
	}
	require.Equal(t, 1000.0, series.InitialSize())

	rates := series.ObservedRetention()
	require.Len(t, rates, 3)
	assert.InDelta(t, 0.869, rates[0], 1e-9)
	assert.InDelta(t, 743.0/869.0, rates[1], 1e-9)
	assert.InDelta(t, 653.0/743.0, rates[2], 1e-9)
}

func TestObservedRetention_ZeroPredecessor(t *testing.T) {
	series := ObservationSeries{
		Active: []float64{0, 0},
		Lost:   []float64{0, 0},
	}
	rates := series.ObservedRetention()
	assert.Equal(t, []float64{0, 0}, rates)
}

func TestShapeParams_Validate(t *testing.T) {
	assert.NoError(t, ShapeParams{Alpha: 0.668, Beta: 3.802}.Validate())
	assert.ErrorIs(t, ShapeParams{Alpha: 0, Beta: 1}.Validate(), core.ErrInvalidArgument)
	assert.ErrorIs(t, ShapeParams{Alpha: 1, Beta: -1}.Validate(), core.ErrInvalidArgument)
}
