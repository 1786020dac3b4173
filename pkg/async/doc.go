// Package async provides safe concurrent execution primitives.
//
// # Overview
//
// Analyses run off the request goroutine on a bounded WorkerPool and report
// completion through a Future. Background chores use SafeGo.
//
// # Key Functions
//
// Submit: run a task on the pool and get a Future back
//
//	f := async.Submit(ctx, pool, func(ctx context.Context) ([]research.ResearchMetric, error) {
//		return analyze(ctx)
//	})
//	metrics, err := f.Wait(ctx)
//
// SafeGo: fire-and-forget with timeout and panic recovery
//
//	async.SafeGo(ctx, logger, time.Minute, "cache warm-up", func(ctx context.Context) error {
//		return analyzer.WarmCategories(ctx, categories)
//	})
//
// # Features
//
// Panic Recovery: panics become task errors or log entries
// Timeout Enforcement: per-task timeouts on the pool
// Graceful Shutdown: queued tasks drain before Shutdown returns
//
// # Related Packages
//
//   - pkg/research: Uses Submit for trend and network analyses
package async
