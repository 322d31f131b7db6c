// Package report renders cohort analysis results for human consumption:
// markdown narration, HTML, and spreadsheet exports. It layers presentation
// on top of the model outputs and adds no semantics of its own.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"churnkit/app"
)

// RenderMarkdown narrates a cohort report: inputs, fitted parameters, the
// projected curves, and lifetime values.
func RenderMarkdown(report *app.CohortReport) string {
	var b strings.Builder

	name := report.Name
	if name == "" {
		name = "cohort"
	}
	fmt.Fprintf(&b, "# Retention analysis: %s\n\n", name)
	fmt.Fprintf(&b, "Run `%s`, completed in %dms.\n\n", report.RunID, report.RuntimeMs)

	b.WriteString("## Fitted model\n\n")
	fmt.Fprintf(&b, "- alpha = %.4f, beta = %.4f\n", report.Fit.Params.Alpha, report.Fit.Params.Beta)
	fmt.Fprintf(&b, "- negative log-likelihood = %.4f\n", report.Fit.NegLogLikelihood)
	fmt.Fprintf(&b, "- converged: %t (%s, %d iterations, %d evaluations)\n",
		report.Fit.Converged, report.Fit.Status, report.Fit.Iterations, report.Fit.Evaluations)
	fmt.Fprintf(&b, "- churn propensity: mean %.4f, std dev %.4f\n",
		report.Propensity.Mean, report.Propensity.StdDev)
	fmt.Fprintf(&b, "- fit error vs observed retention: MAE %.4f, RMSE %.4f\n\n",
		report.Diagnostics.MAE, report.Diagnostics.RMSE)

	b.WriteString("## Lifetime value\n\n")
	fmt.Fprintf(&b, "- discounted expected lifetime (DEL): %.4f periods\n", report.DEL)
	if len(report.DERL) > 0 {
		renewals := make([]int, 0, len(report.DERL))
		for r := range report.DERL {
			renewals = append(renewals, r)
		}
		sort.Ints(renewals)
		for _, r := range renewals {
			fmt.Fprintf(&b, "- DERL after %d renewals: %.4f periods\n", r, report.DERL[r])
		}
	}
	b.WriteString("\n")

	b.WriteString("## Projected curves\n\n")
	b.WriteString("| Period | Churn | Survival | Retention | Observed retention |\n")
	b.WriteString("|-------:|------:|---------:|----------:|-------------------:|\n")
	for _, point := range report.Curve {
		observed := "-"
		if point.ObservedRetention != nil {
			observed = fmt.Sprintf("%.4f", *point.ObservedRetention)
		}
		fmt.Fprintf(&b, "| %d | %.4f | %.4f | %.4f | %s |\n",
			point.Period, point.ChurnProbability, point.Survival, point.RetentionRate, observed)
	}

	return b.String()
}

// RenderHTML renders the markdown narration to an HTML fragment.
func RenderHTML(report *app.CohortReport) []byte {
	md := RenderMarkdown(report)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
