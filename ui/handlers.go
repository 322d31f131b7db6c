package ui

import (
	"encoding/json"
	"net/http"

	"churnkit/app"
	"churnkit/domain/core"
	"churnkit/internal/analysis/sbg"
)

// handleFit fits (alpha, beta) to a cohort and returns the full report.
func (a *App) handleFit(w http.ResponseWriter, r *http.Request) {
	var req app.CohortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := a.service.AnalyzeCohort(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type projectRequest struct {
	Alpha   float64 `json:"alpha"`
	Beta    float64 `json:"beta"`
	Periods []int   `json:"periods"`
}

type projectResponse struct {
	Periods   []int     `json:"periods"`
	Churn     []float64 `json:"churn"`
	Survival  []float64 `json:"survival"`
	Retention []float64 `json:"retention"`
}

// handleProject evaluates the probability kernel and retention rate over the
// requested periods for given shape parameters.
func (a *App) handleProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	churn, err := sbg.ChurnProbabilities(req.Alpha, req.Beta, req.Periods)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	survival, err := sbg.SurvivalProbabilities(req.Alpha, req.Beta, req.Periods)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	retention, err := sbg.RetentionRates(req.Alpha, req.Beta, req.Periods)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse{
		Periods:   req.Periods,
		Churn:     churn,
		Survival:  survival,
		Retention: retention,
	})
}

type valueRequest struct {
	Alpha        float64 `json:"alpha"`
	Beta         float64 `json:"beta"`
	DiscountRate float64 `json:"discount_rate"`
	RenewalCount int     `json:"renewal_count,omitempty"`
	Horizon      int     `json:"horizon,omitempty"`
}

type valueResponse struct {
	DEL  float64  `json:"del"`
	DERL *float64 `json:"derl,omitempty"`
}

// handleValue computes DEL, and DERL when a renewal count is supplied.
func (a *App) handleValue(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Horizon == 0 {
		req.Horizon = sbg.DefaultHorizon
	}

	del, err := sbg.DiscountedExpectedLifetime(req.Alpha, req.Beta, req.DiscountRate, req.Horizon)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := valueResponse{DEL: del}
	if req.RenewalCount != 0 {
		derl, err := sbg.DiscountedExpectedResidualLifetime(req.Alpha, req.Beta, req.RenewalCount, req.DiscountRate, req.Horizon)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp.DERL = &derl
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case core.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case core.IsNonConvergenceError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
