package research

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsAt(times ...time.Time) []ResearchMetric {
	metrics := make([]ResearchMetric, 0, len(times))
	for _, ts := range times {
		metrics = append(metrics, ResearchMetric{Category: "alignment", Timestamp: ts})
	}
	return metrics
}

func TestTrendCutoff(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), TrendCutoff(now, 24))
	assert.Equal(t, now, TrendCutoff(now, 0))
}

func TestFilterTrends_ZeroTimeframeIsEmpty(t *testing.T) {
	clock := newTickingClock(time.Millisecond)
	metrics := NewMetricGenerator(NewSource(3), clock.Now).Generate("alignment")

	recent := FilterTrends(metrics, TrendCutoff(clock.Now(), 0))

	assert.Empty(t, recent)
	assert.NotNil(t, recent)
}

func TestFilterTrends_StrictCutoffNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	metrics := metricsAt(
		base.Add(-3*time.Hour),
		base.Add(-1*time.Hour),
		base.Add(-2*time.Hour), // exactly at the cutoff
		base.Add(-30*time.Minute),
		base.Add(-5*time.Hour),
	)
	cutoff := base.Add(-2 * time.Hour)

	recent := FilterTrends(metrics, cutoff)

	require.Len(t, recent, 2)
	assert.Equal(t, base.Add(-30*time.Minute), recent[0].Timestamp)
	assert.Equal(t, base.Add(-1*time.Hour), recent[1].Timestamp)
	for _, m := range recent {
		assert.True(t, m.Timestamp.After(cutoff))
	}
}

func TestFilterTrends_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	metrics := metricsAt(base, base.Add(time.Minute), base.Add(2*time.Minute))
	original := append([]ResearchMetric(nil), metrics...)

	recent := FilterTrends(metrics, base.Add(-time.Hour))

	assert.Equal(t, original, metrics)
	require.Len(t, recent, 3)
	assert.Equal(t, base.Add(2*time.Minute), recent[0].Timestamp)
}

func TestFilterTrends_GeneratedSeriesSortedStrictlyDescending(t *testing.T) {
	clock := newTickingClock(time.Microsecond)
	metrics := NewMetricGenerator(NewSource(9), clock.Now).Generate("alignment")

	recent := FilterTrends(metrics, TrendCutoff(clock.Now(), 24))

	require.Len(t, recent, MetricsPerCategory)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].Timestamp.After(recent[i].Timestamp))
	}
}
