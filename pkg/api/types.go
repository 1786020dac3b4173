package api

import (
	"context"
	"time"

	"github.com/houstonoilairs/research-analytics/pkg/async"
	"github.com/houstonoilairs/research-analytics/pkg/research"
)

// ServiceName is reported by the health endpoint
const ServiceName = "AI Research Analytics"

// DefaultTimeframeHours applies when a trends request omits timeframe
const DefaultTimeframeHours = 24

// Analyzer runs the analyses behind the HTTP endpoints
type Analyzer interface {
	AnalyzeResearchTrends(ctx context.Context, category string, timeframeHours int) *async.Future[[]research.ResearchMetric]
	PerformNetworkAnalysis(ctx context.Context, categories []string) *async.Future[*research.NetworkAnalysis]
}

// TrendsQuery holds the validated query of a research trends request
type TrendsQuery struct {
	Category  string `query:"category" validate:"required"`
	Timeframe int    `query:"timeframe" validate:"gte=0"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}
