package research

import "time"

// MetricsPerCategory is the fixed length of every generated series
const MetricsPerCategory = 1000

// Clock returns the current instant
type Clock func() time.Time

// MetricGenerator produces synthetic research metrics
type MetricGenerator struct {
	source Source
	now    Clock
}

// NewMetricGenerator creates a generator drawing from source.
// A nil clock uses time.Now.
func NewMetricGenerator(source Source, now Clock) *MetricGenerator {
	if now == nil {
		now = time.Now
	}
	return &MetricGenerator{source: source, now: now}
}

// Generate builds MetricsPerCategory metrics for category.
// Timestamps are strictly increasing in generation order and never later than
// the clock reading taken once generation ends. Readings that do not advance
// are pulled back one nanosecond below their successor.
func (g *MetricGenerator) Generate(category string) []ResearchMetric {
	metrics := make([]ResearchMetric, 0, MetricsPerCategory)

	for i := 0; i < MetricsPerCategory; i++ {
		metrics = append(metrics, ResearchMetric{
			Category:      category,
			Impact:        g.source.Float64(),
			Novelty:       g.source.Float64(),
			Collaboration: g.source.Float64(),
			Timestamp:     g.now(),
			Metadata: map[string]float64{
				MetaCitationCount:          float64(g.source.IntN(500)),
				MetaInterdisciplinaryScore: g.source.Float64(),
				MetaPracticalApplication:   g.source.Float64(),
				MetaEthicalConsiderations:  g.source.Float64(),
				MetaTechnicalComplexity:    g.source.Float64() * 10,
			},
		})
	}

	bound := g.now()
	for i := len(metrics) - 1; i >= 0; i-- {
		if metrics[i].Timestamp.After(bound) {
			metrics[i].Timestamp = bound
		}
		bound = metrics[i].Timestamp.Add(-time.Nanosecond)
	}

	return metrics
}
