package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jaylee/storepulse/internal/analytics"
	"github.com/jaylee/storepulse/internal/contracts"
	"github.com/jaylee/storepulse/internal/dataset"
	"github.com/jaylee/storepulse/internal/filter"
	"github.com/jaylee/storepulse/pkg/logger"
)

// AnalyticsHandler serves the computed analytics tables. Every request
// filters the current snapshot and recomputes from scratch; nothing
// derived is cached between requests.
type AnalyticsHandler struct {
	store   *dataset.SnapshotStore
	rfm     *analytics.RFMCalculator
	cohorts *analytics.CohortBuilder
	summary *analytics.SummaryCalculator
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(
	store *dataset.SnapshotStore,
	rfm *analytics.RFMCalculator,
	cohorts *analytics.CohortBuilder,
	summary *analytics.SummaryCalculator,
	log *logger.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:   store,
		rfm:     rfm,
		cohorts: cohorts,
		summary: summary,
		logger:  log,
	}
}

// GetRFM returns the RFM table for the filtered snapshot.
// GET /api/analytics/rfm
func (h *AnalyticsHandler) GetRFM(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.filteredOrders(w, r)
	if !ok {
		return
	}

	rows, err := h.rfm.Compute(orders)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rows),
		"rows":  rows,
	})
}

// GetCohorts returns the cohort retention matrix for the filtered snapshot.
// GET /api/analytics/cohorts
func (h *AnalyticsHandler) GetCohorts(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.filteredOrders(w, r)
	if !ok {
		return
	}

	cells, err := h.cohorts.Compute(orders)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(cells),
		"cells": cells,
	})
}

// GetSummary returns headline KPIs for the filtered snapshot.
// GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.filteredOrders(w, r)
	if !ok {
		return
	}

	s, err := h.summary.Compute(orders)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

// GetMonthlyRevenue returns the revenue time series.
// GET /api/analytics/revenue/monthly
func (h *AnalyticsHandler) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	orders, ok := h.filteredOrders(w, r)
	if !ok {
		return
	}

	series, err := h.summary.MonthlyRevenue(orders)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(series),
		"series": series,
	})
}

// GetBreakdown returns a per-dimension revenue breakdown.
// GET /api/analytics/breakdown/{dimension}
func (h *AnalyticsHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	dimension := mux.Vars(r)["dimension"]
	if dimension != analytics.DimensionCategory && dimension != analytics.DimensionRegion {
		respondError(w, http.StatusBadRequest, "dimension must be 'category' or 'region'")
		return
	}

	orders, ok := h.filteredOrders(w, r)
	if !ok {
		return
	}

	rows, err := h.summary.Breakdown(orders, dimension)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dimension": dimension,
		"rows":      rows,
	})
}

// filteredOrders reads the snapshot and applies the request's filters.
// On failure it writes the error response and returns ok=false.
func (h *AnalyticsHandler) filteredOrders(w http.ResponseWriter, r *http.Request) ([]contracts.OrderRecord, bool) {
	criteria, expr, err := parseFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	orders, loadedAt := h.store.Get()
	if loadedAt.IsZero() {
		respondError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return nil, false
	}

	filtered, err := filter.Apply(orders, criteria, expr)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return filtered, true
}

// respondComputeError maps pipeline failures onto status codes: malformed
// input data is the dataset's fault (422), anything else is ours (500).
func (h *AnalyticsHandler) respondComputeError(w http.ResponseWriter, err error) {
	if contracts.IsInvalidInput(err) {
		h.logger.WithError(err).Warn("Invalid rows in loaded dataset")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.WithError(err).Error("Analytics computation failed")
	respondError(w, http.StatusInternalServerError, "computation failed")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
