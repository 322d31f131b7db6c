package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"churnkit/domain/core"
	"churnkit/domain/retention"
	"churnkit/internal/analysis/sbg"
)

// CohortRequest defines the inputs for a single cohort analysis.
type CohortRequest struct {
	Name              string                      `json:"name"`
	Series            retention.ObservationSeries `json:"series"`
	DiscountRate      float64                     `json:"discount_rate"`
	ProjectionPeriods int                         `json:"projection_periods"` // defaults to 24
	Horizon           int                         `json:"horizon"`            // defaults to sbg.DefaultHorizon
	RenewalCounts     []int                       `json:"renewal_counts"`     // DERL conditioning points, each >= 2
	Fit               sbg.FitConfig               `json:"-"`                  // zero value means defaults
}

// CurvePoint is one period of the projected curves. ObservedRetention is set
// only for periods inside the observation window.
type CurvePoint struct {
	Period            int      `json:"period"`
	ChurnProbability  float64  `json:"churn_probability"`
	Survival          float64  `json:"survival"`
	RetentionRate     float64  `json:"retention_rate"`
	ObservedRetention *float64 `json:"observed_retention,omitempty"`
}

// CohortReport is the complete output of one cohort analysis.
type CohortReport struct {
	RunID       core.RunID            `json:"run_id"`
	Name        string                `json:"name"`
	Fit         retention.FitResult   `json:"fit"`
	Curve       []CurvePoint          `json:"curve"`
	DEL         float64               `json:"del"`
	DERL        map[int]float64       `json:"derl,omitempty"`
	Diagnostics sbg.Diagnostics       `json:"diagnostics"`
	Propensity  sbg.PropensitySummary `json:"propensity"`
	RuntimeMs   int64                 `json:"runtime_ms"`
}

// RetentionService orchestrates fitting and projection for cohorts. The
// underlying model functions are stateless, so one service instance can serve
// concurrent callers.
type RetentionService struct {
	maxConcurrency int
}

// NewRetentionService creates a retention service. maxConcurrency bounds the
// parallel fan-out of AnalyzeCohorts; values below 1 mean unbounded.
func NewRetentionService(maxConcurrency int) *RetentionService {
	return &RetentionService{maxConcurrency: maxConcurrency}
}

// AnalyzeCohort validates the series, fits (alpha, beta), and derives the
// projected curves, lifetime values, and diagnostics. A non-convergent fit is
// returned as an error; the model never retries.
func (s *RetentionService) AnalyzeCohort(ctx context.Context, req CohortRequest) (*CohortReport, error) {
	startTime := time.Now()

	if err := req.Series.Validate(); err != nil {
		return nil, err
	}
	if req.DiscountRate < 0 || req.DiscountRate >= 1 {
		return nil, core.ErrInvalidDiscount
	}
	if req.ProjectionPeriods <= 0 {
		req.ProjectionPeriods = 24
	}
	if req.Horizon <= 0 {
		req.Horizon = sbg.DefaultHorizon
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fit, err := sbg.Fit(req.Series, req.Fit)
	if err != nil {
		return nil, fmt.Errorf("cohort %q: %w", req.Name, err)
	}
	alpha, beta := fit.Params.Alpha, fit.Params.Beta

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	curve, err := s.buildCurve(req.Series, alpha, beta, req.ProjectionPeriods)
	if err != nil {
		return nil, err
	}

	del, err := sbg.DiscountedExpectedLifetime(alpha, beta, req.DiscountRate, req.Horizon)
	if err != nil {
		return nil, err
	}

	var derl map[int]float64
	if len(req.RenewalCounts) > 0 {
		derl = make(map[int]float64, len(req.RenewalCounts))
		for _, renewals := range req.RenewalCounts {
			v, err := sbg.DiscountedExpectedResidualLifetime(alpha, beta, renewals, req.DiscountRate, req.Horizon)
			if err != nil {
				return nil, fmt.Errorf("cohort %q renewals=%d: %w", req.Name, renewals, err)
			}
			derl[renewals] = v
		}
	}

	diag, err := sbg.ComputeDiagnostics(req.Series, alpha, beta)
	if err != nil {
		return nil, err
	}
	propensity, err := sbg.SummarizePropensity(alpha, beta)
	if err != nil {
		return nil, err
	}

	return &CohortReport{
		RunID:       core.RunID(core.NewID()),
		Name:        req.Name,
		Fit:         fit,
		Curve:       curve,
		DEL:         del,
		DERL:        derl,
		Diagnostics: diag,
		Propensity:  propensity,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}, nil
}

// AnalyzeCohorts fans out over independent cohorts. Results preserve request
// order. The first failure cancels the remaining work.
func (s *RetentionService) AnalyzeCohorts(ctx context.Context, reqs []CohortRequest) ([]*CohortReport, error) {
	reports := make([]*CohortReport, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i, req := range reqs {
		i, req := i, req // per-iteration copies: required under the go1.21 toolchain this builds with
		g.Go(func() error {
			report, err := s.AnalyzeCohort(gctx, req)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *RetentionService) buildCurve(series retention.ObservationSeries, alpha, beta float64, projectionPeriods int) ([]CurvePoint, error) {
	if projectionPeriods < series.Periods() {
		projectionPeriods = series.Periods()
	}
	periods := make([]int, projectionPeriods)
	for i := range periods {
		periods[i] = i + 1
	}

	churn, err := sbg.ChurnProbabilities(alpha, beta, periods)
	if err != nil {
		return nil, err
	}
	survival, err := sbg.SurvivalProbabilities(alpha, beta, periods)
	if err != nil {
		return nil, err
	}
	rates, err := sbg.RetentionRates(alpha, beta, periods)
	if err != nil {
		return nil, err
	}
	observed := series.ObservedRetention()

	curve := make([]CurvePoint, projectionPeriods)
	for i := range curve {
		point := CurvePoint{
			Period:           i + 1,
			ChurnProbability: churn[i],
			Survival:         survival[i],
			RetentionRate:    rates[i],
		}
		if i < len(observed) {
			v := observed[i]
			point.ObservedRetention = &v
		}
		curve[i] = point
	}
	return curve, nil
}
