package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/houstonoilairs/research-analytics/pkg/httputil"
	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"github.com/houstonoilairs/research-analytics/pkg/research"
)

// AnalyticsHandlers provides the research analytics API endpoints
type AnalyticsHandlers struct {
	analyzer Analyzer
	now      func() time.Time
}

// NewAnalyticsHandlers creates a new analytics handlers instance
func NewAnalyticsHandlers(analyzer Analyzer) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyzer: analyzer,
		now:      time.Now,
	}
}

// RegisterRoutes registers analytics API routes
func (h *AnalyticsHandlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/analytics/research-trends", h.getResearchTrends).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/network-analysis", h.postNetworkAnalysis).Methods(http.MethodPost)
	r.HandleFunc("/api/analytics/health", h.getHealth).Methods(http.MethodGet)
}

// getResearchTrends handles GET /api/analytics/research-trends
// Query params:
//   - category: research category (required)
//   - timeframe: window in hours, >= 0 - default: 24
//
// Responds 204 when no metric falls inside the window.
func (h *AnalyticsHandlers) getResearchTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	timeframe, err := httputil.ParseQueryInt(r, "timeframe", DefaultTimeframeHours)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	query := TrendsQuery{
		Category:  httputil.ParseQueryString(r, "category", ""),
		Timeframe: timeframe,
	}
	if !httputil.ValidateOrError(w, query) {
		return
	}

	metrics, err := h.analyzer.AnalyzeResearchTrends(ctx, query.Category, query.Timeframe).Wait(ctx)
	if err != nil {
		h.writeAnalysisError(ctx, w, err)
		return
	}

	if len(metrics) == 0 {
		httputil.WriteNoContent(w)
		return
	}
	httputil.WriteJSONOrError(ctx, w, http.StatusOK, metrics)
}

// postNetworkAnalysis handles POST /api/analytics/network-analysis
// Body: JSON array of category names.
//
// Responds 204 when the generated graph has no nodes or no edges.
func (h *AnalyticsHandlers) postNetworkAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var categories []string
	if !httputil.ParseJSONOrError(w, r, &categories) {
		return
	}
	if !httputil.ValidateVarOrError(w, "categories", categories, "dive,required") {
		return
	}

	analysis, err := h.analyzer.PerformNetworkAnalysis(ctx, categories).Wait(ctx)
	if err != nil {
		h.writeAnalysisError(ctx, w, err)
		return
	}

	if analysis.IsEmpty() {
		httputil.WriteNoContent(w)
		return
	}
	httputil.WriteJSONOrError(ctx, w, http.StatusOK, analysis)
}

// getHealth handles GET /api/analytics/health
func (h *AnalyticsHandlers) getHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOrError(r.Context(), w, http.StatusOK, HealthResponse{
		Status:    observability.StatusHealthy,
		Timestamp: h.now(),
		Service:   ServiceName,
	})
}

func (h *AnalyticsHandlers) writeAnalysisError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx).WithError(err)

	var trendErr *research.TrendAnalysisError
	var networkErr *research.NetworkAnalysisError
	switch {
	case errors.As(err, &trendErr):
		logger.WithField("category", trendErr.Category).Error("research trend analysis failed")
	case errors.As(err, &networkErr):
		logger.WithField("categories", networkErr.Categories).Error("network analysis failed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("analysis abandoned")
		httputil.WriteServiceUnavailable(w, "analysis did not complete")
		return
	default:
		logger.Error("analysis failed")
	}

	httputil.WriteInternalError(w, err)
}
