package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/houstonoilairs/research-analytics/pkg/async"
	"github.com/houstonoilairs/research-analytics/pkg/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/houstonoilairs/research-analytics/pkg/research"

// MetricsStore memoizes generated metric series by category
type MetricsStore = cache.Store[[]ResearchMetric]

// Analyzer runs research trend and network analyses on a worker pool
type Analyzer struct {
	store    MetricsStore
	metrics  *MetricGenerator
	graphs   *GraphBuilder
	pool     *async.WorkerPool
	now      Clock
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithClock overrides the clock used for timestamps and cutoffs
func WithClock(now Clock) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRecorder reports analysis measurements to r
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// NewAnalyzer creates an analyzer. Metric series are memoized in store and
// tasks run on pool (a nil pool runs each task on its own goroutine).
func NewAnalyzer(store MetricsStore, source Source, pool *async.WorkerPool, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:    store,
		pool:     pool,
		now:      time.Now,
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.metrics = NewMetricGenerator(source, a.now)
	a.graphs = NewGraphBuilder(source)
	return a
}

// AnalyzeResearchTrends returns the metrics of category generated within the
// last timeframeHours, newest first. Failures are *TrendAnalysisError.
func (a *Analyzer) AnalyzeResearchTrends(ctx context.Context, category string, timeframeHours int) *async.Future[[]ResearchMetric] {
	return async.Submit(ctx, a.pool, func(ctx context.Context) ([]ResearchMetric, error) {
		ctx, span := a.tracer.Start(ctx, "research.AnalyzeResearchTrends", trace.WithAttributes(
			attribute.String("research.category", category),
			attribute.Int("research.timeframe_hours", timeframeHours),
		))
		defer span.End()

		start := time.Now()
		metrics, err := a.trends(ctx, category, timeframeHours)
		if err != nil {
			a.recorder.RecordAnalysis(KindTrends, StatusError, time.Since(start))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, &TrendAnalysisError{Category: category, Err: err}
		}

		a.recorder.RecordAnalysis(KindTrends, StatusSuccess, time.Since(start))
		span.SetAttributes(attribute.Int("research.metrics_returned", len(metrics)))
		return metrics, nil
	})
}

func (a *Analyzer) trends(ctx context.Context, category string, timeframeHours int) (result []ResearchMetric, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	series, err := a.series(ctx, category)
	if err != nil {
		return nil, err
	}

	return FilterTrends(series, TrendCutoff(a.now(), timeframeHours)), nil
}

func (a *Analyzer) series(ctx context.Context, category string) ([]ResearchMetric, error) {
	series, hit, err := a.store.GetOrCompute(ctx, category, func(ctx context.Context) ([]ResearchMetric, error) {
		return a.metrics.Generate(category), nil
	})
	a.recorder.RecordCacheLookup(a.store.Backend(), hit)
	return series, err
}

// PerformNetworkAnalysis builds a random collaboration graph over categories
// and scores it. Failures are *NetworkAnalysisError.
func (a *Analyzer) PerformNetworkAnalysis(ctx context.Context, categories []string) *async.Future[*NetworkAnalysis] {
	return async.Submit(ctx, a.pool, func(ctx context.Context) (*NetworkAnalysis, error) {
		_, span := a.tracer.Start(ctx, "research.PerformNetworkAnalysis", trace.WithAttributes(
			attribute.StringSlice("research.categories", categories),
		))
		defer span.End()

		start := time.Now()
		analysis, err := a.network(categories)
		if err != nil {
			a.recorder.RecordAnalysis(KindNetwork, StatusError, time.Since(start))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, &NetworkAnalysisError{Categories: categories, Err: err}
		}

		a.recorder.RecordAnalysis(KindNetwork, StatusSuccess, time.Since(start))
		a.recorder.RecordGraph(len(analysis.Nodes), len(analysis.Edges), analysis.NetworkDensity)
		span.SetAttributes(
			attribute.Int("research.nodes", len(analysis.Nodes)),
			attribute.Int("research.edges", len(analysis.Edges)),
			attribute.Float64("research.density", analysis.NetworkDensity),
		)
		return analysis, nil
	})
}

func (a *Analyzer) network(categories []string) (analysis *NetworkAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			analysis, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	nodes, edges := a.graphs.Build(categories)
	return &NetworkAnalysis{
		Nodes:            nodes,
		Edges:            edges,
		CentralityScores: Centrality(nodes, edges),
		NetworkDensity:   Density(nodes, edges),
		AnalysisTime:     a.now(),
	}, nil
}

// WarmCategories populates the metrics cache for every category. It keeps
// going past failures and returns them joined.
func (a *Analyzer) WarmCategories(ctx context.Context, categories []string) error {
	var errs []error
	for _, category := range uniqueCategories(categories) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.series(ctx, category); err != nil {
			errs = append(errs, &TrendAnalysisError{Category: category, Err: err})
		}
	}
	return errors.Join(errs...)
}
