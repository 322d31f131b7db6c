package sbg

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"churnkit/domain/core"
	"churnkit/domain/retention"
)

// FitConfig controls the maximum-likelihood search. The zero value is not
// usable; start from DefaultFitConfig.
type FitConfig struct {
	InitialAlpha   float64
	InitialBeta    float64
	MaxIterations  int
	MaxEvaluations int
	Tolerance      float64
}

// DefaultFitConfig starts the search at (1,1) and gives Nelder-Mead a
// generous budget.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		InitialAlpha:   1,
		InitialBeta:    1,
		MaxIterations:  1000,
		MaxEvaluations: 2000,
		Tolerance:      1e-10,
	}
}

func (c FitConfig) withDefaults() FitConfig {
	d := DefaultFitConfig()
	if c.InitialAlpha == 0 {
		c.InitialAlpha = d.InitialAlpha
	}
	if c.InitialBeta == 0 {
		c.InitialBeta = d.InitialBeta
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.MaxEvaluations == 0 {
		c.MaxEvaluations = d.MaxEvaluations
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	return c
}

// Fit recovers (alpha, beta) from an observed cohort by minimizing the
// negative log-likelihood with Nelder-Mead. The search is unconstrained;
// the objective's +Inf penalty is the only guard against the invalid region.
//
// The result always carries the best-found parameters. When the optimizer
// exhausts its iteration or evaluation budget without meeting the tolerance,
// Fit returns those parameters together with a NonConvergence error; it never
// retries. Identical inputs and config produce identical results.
func Fit(series retention.ObservationSeries, cfg FitConfig) (retention.FitResult, error) {
	obj, err := NewObjective(series)
	if err != nil {
		return retention.FitResult{}, err
	}
	cfg = cfg.withDefaults()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return obj.NegLogLikelihood(x[0], x[1])
		},
	}
	settings := &optimize.Settings{
		MajorIterations: cfg.MaxIterations,
		FuncEvaluations: cfg.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.Tolerance,
			Iterations: 100,
		},
	}

	result, err := optimize.Minimize(problem, []float64{cfg.InitialAlpha, cfg.InitialBeta}, settings, &optimize.NelderMead{})
	if err != nil {
		return retention.FitResult{}, fmt.Errorf("minimize: %w", err)
	}

	fit := retention.FitResult{
		Params:           retention.ShapeParams{Alpha: result.X[0], Beta: result.X[1]},
		NegLogLikelihood: result.F,
		Status:           result.Status.String(),
		Iterations:       result.Stats.MajorIterations,
		Evaluations:      result.Stats.FuncEvaluations,
	}

	switch result.Status {
	case optimize.FunctionConvergence, optimize.MethodConverge, optimize.Success:
		fit.Converged = true
	default:
		return fit, core.NewNonConvergenceError(fit.Status, fit.Iterations, fit.Evaluations)
	}
	return fit, nil
}
