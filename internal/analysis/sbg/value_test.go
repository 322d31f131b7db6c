package sbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnkit/domain/core"
)

func TestDiscountedExpectedLifetime_HighEndFit(t *testing.T) {
	del, err := DiscountedExpectedLifetime(0.6677, 3.8025, 0.1, DefaultHorizon)
	require.NoError(t, err)
	assert.InDelta(t, 5.9206, del, 1e-3)
}

func TestDiscountedExpectedResidualLifetime_HighEndFit(t *testing.T) {
	derl, err := DiscountedExpectedResidualLifetime(0.6677, 3.8025, 4, 0.1, DefaultHorizon)
	require.NoError(t, err)
	assert.InDelta(t, 6.8933, derl, 1e-3)
}

func TestDiscountedExpectedLifetime_HorizonTruncation(t *testing.T) {
	short, err := DiscountedExpectedLifetime(0.6677, 3.8025, 0.1, 35)
	require.NoError(t, err)
	long, err := DiscountedExpectedLifetime(0.6677, 3.8025, 0.1, 140)
	require.NoError(t, err)

	// Longer horizons only add non-negative discounted survival mass.
	assert.GreaterOrEqual(t, long, short)
	assert.InDelta(t, long, short, 0.05)
}

func TestDiscountedExpectedLifetime_ZeroDiscount(t *testing.T) {
	undiscounted, err := DiscountedExpectedLifetime(0.6677, 3.8025, 0, DefaultHorizon)
	require.NoError(t, err)
	discounted, err := DiscountedExpectedLifetime(0.6677, 3.8025, 0.1, DefaultHorizon)
	require.NoError(t, err)
	assert.Greater(t, undiscounted, discounted)
}

func TestDiscountedExpectedResidualLifetime_RejectsLowRenewals(t *testing.T) {
	for _, renewals := range []int{1, 0, -2} {
		_, err := DiscountedExpectedResidualLifetime(0.6677, 3.8025, renewals, 0.1, DefaultHorizon)
		assert.ErrorIs(t, err, core.ErrInvalidArgument, "renewals=%d", renewals)
	}
}

func TestValueAggregator_RejectsInvalidInputs(t *testing.T) {
	_, err := DiscountedExpectedLifetime(0, 1, 0.1, DefaultHorizon)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = DiscountedExpectedLifetime(1, 1, 1.0, DefaultHorizon)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = DiscountedExpectedLifetime(1, 1, -0.1, DefaultHorizon)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = DiscountedExpectedLifetime(1, 1, 0.1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestDiscountedExpectedResidualLifetime_RenewalsBeyondHorizon(t *testing.T) {
	derl, err := DiscountedExpectedResidualLifetime(0.6677, 3.8025, 10, 0.1, 5)
	require.NoError(t, err)
	assert.Zero(t, derl)
}
