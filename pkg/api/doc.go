// Package api exposes the research analytics HTTP API.
//
// # Endpoints
//
//	GET  /api/analytics/research-trends?category=alignment&timeframe=24
//	POST /api/analytics/network-analysis   ["alignment","fairness"]
//	GET  /api/analytics/health
//
// Analyses answer 200 with a JSON body, or 204 when the result is empty
// (no metric inside the window, or a graph without nodes or edges).
// Malformed input is rejected with 400 before any analysis runs, and a
// failed analysis answers 500.
//
// # Usage Example
//
//	server := api.NewServer(analyzer, logger, api.ServerOptions{
//		Metrics:      metrics,
//		MaxBodyBytes: cfg.Server.MaxBodyBytes,
//	})
//	http.ListenAndServe(":8080", server)
package api
