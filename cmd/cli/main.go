package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"churnkit/app"
	"churnkit/domain/retention"
	"churnkit/internal/analysis/sbg"
	"churnkit/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "churnkit",
		Short: "Fit and project sBG customer-retention models",
	}

	rootCmd.AddCommand(
		newFitCmd(),
		newProjectCmd(),
		newValueCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseCohort parses "name=a1,a2,...;l1,l2,..." batch cohort specs.
func parseCohort(spec string) (app.CohortRequest, error) {
	name, counts, ok := strings.Cut(spec, "=")
	if !ok {
		return app.CohortRequest{}, fmt.Errorf("cohort spec %q: expected name=active;lost", spec)
	}
	activePart, lostPart, ok := strings.Cut(counts, ";")
	if !ok {
		return app.CohortRequest{}, fmt.Errorf("cohort spec %q: expected active;lost", spec)
	}
	active, err := parseFloats(activePart)
	if err != nil {
		return app.CohortRequest{}, err
	}
	lost, err := parseFloats(lostPart)
	if err != nil {
		return app.CohortRequest{}, err
	}
	return app.CohortRequest{
		Name:   name,
		Series: retention.ObservationSeries{Active: active, Lost: lost},
	}, nil
}

func newFitCmd() *cobra.Command {
	var activeFlag, lostFlag string
	var cohortFlags []string
	var discount float64

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit (alpha, beta) to observed active/lost counts",
		Long: `Fit the sBG shape parameters by maximum likelihood.

Example: churnkit fit --active 869,743,653,593,551,517,491 --lost 131,126,90,60,42,34,26`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := collectRequests(activeFlag, lostFlag, cohortFlags, discount)
			if err != nil {
				return err
			}

			service := app.NewRetentionService(0)
			var bar *progressbar.ProgressBar
			if len(reqs) > 1 {
				bar = progressbar.Default(int64(len(reqs)))
			}
			for _, req := range reqs {
				result, err := service.AnalyzeCohort(cmd.Context(), req)
				if err != nil {
					return err
				}
				printFit(cmd, result)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&activeFlag, "active", "", "comma-separated active counts per period")
	cmd.Flags().StringVar(&lostFlag, "lost", "", "comma-separated lost counts per period")
	cmd.Flags().StringArrayVar(&cohortFlags, "cohort", nil, "batch cohort spec name=active;lost (repeatable)")
	cmd.Flags().Float64Var(&discount, "discount", 0.1, "per-period discount rate")
	return cmd
}

func collectRequests(activeFlag, lostFlag string, cohortFlags []string, discount float64) ([]app.CohortRequest, error) {
	var reqs []app.CohortRequest
	if activeFlag != "" || lostFlag != "" {
		active, err := parseFloats(activeFlag)
		if err != nil {
			return nil, err
		}
		lost, err := parseFloats(lostFlag)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, app.CohortRequest{
			Name:   "cohort",
			Series: retention.ObservationSeries{Active: active, Lost: lost},
		})
	}
	for _, spec := range cohortFlags {
		req, err := parseCohort(spec)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("provide --active/--lost or at least one --cohort")
	}
	for i := range reqs {
		reqs[i].DiscountRate = discount
	}
	return reqs, nil
}

func printFit(cmd *cobra.Command, result *app.CohortReport) {
	cmd.Printf("%s: alpha=%.4f beta=%.4f nll=%.4f converged=%t (%d iterations)\n",
		result.Name, result.Fit.Params.Alpha, result.Fit.Params.Beta,
		result.Fit.NegLogLikelihood, result.Fit.Converged, result.Fit.Iterations)
	cmd.Printf("%s: DEL=%.4f propensity mean=%.4f MAE=%.4f\n",
		result.Name, result.DEL, result.Propensity.Mean, result.Diagnostics.MAE)
}

func newProjectCmd() *cobra.Command {
	var alpha, beta float64
	var periods int

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project churn/survival/retention curves for given parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			seq := make([]int, periods)
			for i := range seq {
				seq[i] = i + 1
			}
			churn, err := sbg.ChurnProbabilities(alpha, beta, seq)
			if err != nil {
				return err
			}
			survival, err := sbg.SurvivalProbabilities(alpha, beta, seq)
			if err != nil {
				return err
			}
			rates, err := sbg.RetentionRates(alpha, beta, seq)
			if err != nil {
				return err
			}

			cmd.Println("period  churn    survival retention")
			for i, t := range seq {
				cmd.Printf("%6d  %.5f  %.5f  %.5f\n", t, churn[i], survival[i], rates[i])
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 1, "shape parameter alpha")
	cmd.Flags().Float64Var(&beta, "beta", 1, "shape parameter beta")
	cmd.Flags().IntVar(&periods, "periods", 12, "number of periods to project")
	return cmd
}

func newValueCmd() *cobra.Command {
	var alpha, beta, discount float64
	var renewals, horizon int

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Compute discounted expected (residual) lifetime",
		RunE: func(cmd *cobra.Command, args []string) error {
			del, err := sbg.DiscountedExpectedLifetime(alpha, beta, discount, horizon)
			if err != nil {
				return err
			}
			cmd.Printf("DEL=%.4f\n", del)

			if renewals > 0 {
				derl, err := sbg.DiscountedExpectedResidualLifetime(alpha, beta, renewals, discount, horizon)
				if err != nil {
					return err
				}
				cmd.Printf("DERL(renewals=%d)=%.4f\n", renewals, derl)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 1, "shape parameter alpha")
	cmd.Flags().Float64Var(&beta, "beta", 1, "shape parameter beta")
	cmd.Flags().Float64Var(&discount, "discount", 0.1, "per-period discount rate")
	cmd.Flags().IntVar(&renewals, "renewals", 0, "renewal count for DERL (>= 2)")
	cmd.Flags().IntVar(&horizon, "horizon", sbg.DefaultHorizon, "truncation horizon")
	return cmd
}

func newReportCmd() *cobra.Command {
	var activeFlag, lostFlag string
	var discount float64
	var periods int
	var xlsxPath, csvPath, htmlPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fit a cohort and export narrated reports and curve files",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := parseFloats(activeFlag)
			if err != nil {
				return err
			}
			lost, err := parseFloats(lostFlag)
			if err != nil {
				return err
			}

			service := app.NewRetentionService(0)
			result, err := service.AnalyzeCohort(cmd.Context(), app.CohortRequest{
				Name:              "cohort",
				Series:            retention.ObservationSeries{Active: active, Lost: lost},
				DiscountRate:      discount,
				ProjectionPeriods: periods,
				RenewalCounts:     []int{2, 3, 4},
			})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := report.WriteXLSX(xlsxPath, result); err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
				cmd.Printf("wrote %s\n", xlsxPath)
			}
			if csvPath != "" {
				if err := report.WriteCSV(csvPath, result); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				cmd.Printf("wrote %s\n", csvPath)
			}
			if htmlPath != "" {
				if err := os.WriteFile(htmlPath, report.RenderHTML(result), 0o644); err != nil {
					return fmt.Errorf("write html: %w", err)
				}
				cmd.Printf("wrote %s\n", htmlPath)
			}
			if xlsxPath == "" && csvPath == "" && htmlPath == "" {
				cmd.Print(report.RenderMarkdown(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&activeFlag, "active", "", "comma-separated active counts per period")
	cmd.Flags().StringVar(&lostFlag, "lost", "", "comma-separated lost counts per period")
	cmd.Flags().Float64Var(&discount, "discount", 0.1, "per-period discount rate")
	cmd.Flags().IntVar(&periods, "periods", 24, "number of periods to project")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write curve workbook to this path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write curve CSV to this path")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write HTML report to this path")
	return cmd
}
