package sbg

import (
	"math"

	"churnkit/domain/core"
)

// DefaultHorizon is the truncation point for the discounted infinite sums.
// Survival probabilities beyond ~70 periods contribute negligibly for any
// realistic discount rate; larger horizons buy precision at linear cost.
const DefaultHorizon = 70

func validateValueArgs(alpha, beta, discountRate float64, horizon int) error {
	if alpha <= 0 || beta <= 0 {
		return core.ErrNonPositiveShape
	}
	if discountRate < 0 || discountRate >= 1 {
		return core.ErrInvalidDiscount
	}
	if horizon < 1 {
		return core.ErrInvalidHorizon
	}
	return nil
}

// DiscountedExpectedLifetime truncates sum_{k>=0} S(k)/(1+d)^k at horizon,
// with S(0) = 1. This is the DEL of a newly acquired customer measured in
// periods.
func DiscountedExpectedLifetime(alpha, beta, discountRate float64, horizon int) (float64, error) {
	if err := validateValueArgs(alpha, beta, discountRate, horizon); err != nil {
		return 0, err
	}
	survival := survivalSeries(alpha, beta, horizon)
	del := 1.0
	for k := 1; k <= horizon; k++ {
		del += survival[k-1] / math.Pow(1+discountRate, float64(k))
	}
	return del, nil
}

// DiscountedExpectedResidualLifetime conditions on a customer having already
// renewed renewalCount times and discounts the remaining expected renewals
// back to that point:
//
//	sum_{k=renewalCount+1..horizon} S(k)/S(renewalCount) * (1+d)^-(k-renewalCount-1)
//
// renewalCount must be at least 2.
func DiscountedExpectedResidualLifetime(alpha, beta float64, renewalCount int, discountRate float64, horizon int) (float64, error) {
	if err := validateValueArgs(alpha, beta, discountRate, horizon); err != nil {
		return 0, err
	}
	if renewalCount < 2 {
		return 0, core.ErrInvalidRenewals
	}
	depth := horizon
	if renewalCount > depth {
		depth = renewalCount
	}
	survival := survivalSeries(alpha, beta, depth)
	sr := survival[renewalCount-1]
	derl := 0.0
	for k := renewalCount + 1; k <= horizon; k++ {
		derl += survival[k-1] / sr * math.Pow(1+discountRate, -float64(k-renewalCount-1))
	}
	return derl, nil
}
