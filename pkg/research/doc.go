// Package research generates synthetic AI-research analytics.
//
// # Overview
//
// Two independent pipelines live here:
//
//   - Research trends: a MetricGenerator produces a fixed-size synthetic time
//     series per category, the series is memoized in an injected cache, and
//     FilterTrends narrows it to a recency window, newest first.
//   - Network analysis: a GraphBuilder produces a random undirected graph over
//     per-category nodes, then Centrality and Density summarize it.
//
// Both pipelines draw randomness from an explicit Source so tests can seed them.
//
// # Usage Example
//
// Trends for the last day:
//
//	analyzer := research.NewAnalyzer(store, research.NewSource(0), pool)
//	metrics, err := analyzer.AnalyzeResearchTrends(ctx, "alignment", 24).Wait(ctx)
//
// Network analysis over two categories:
//
//	analysis, err := analyzer.PerformNetworkAnalysis(ctx, []string{"alignment", "fairness"}).Wait(ctx)
//	fmt.Printf("nodes=%d edges=%d density=%.3f\n",
//		len(analysis.Nodes), len(analysis.Edges), analysis.NetworkDensity)
//
// # Centrality
//
// Centrality is degree divided by the total node count (not count-1). The
// normalization is kept for compatibility with existing consumers.
//
// # Related Packages
//
//   - pkg/cache: Memoizing stores used for the metrics series
//   - pkg/async: Futures the analyzer returns
//   - pkg/api: HTTP surface
package research
