package research

import (
	"sort"
	"time"
)

// TrendCutoff returns the oldest instant (exclusive) a metric may carry to be
// part of a timeframe ending at now
func TrendCutoff(now time.Time, timeframeHours int) time.Time {
	return now.Add(-time.Duration(timeframeHours) * time.Hour)
}

// FilterTrends returns the metrics strictly newer than cutoff, newest first.
// The input slice is left untouched.
func FilterTrends(metrics []ResearchMetric, cutoff time.Time) []ResearchMetric {
	recent := make([]ResearchMetric, 0, len(metrics))
	for _, m := range metrics {
		if m.Timestamp.After(cutoff) {
			recent = append(recent, m)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})

	return recent
}
