package research

import "time"

// Analysis kinds and outcomes reported to a Recorder
const (
	KindTrends  = "trends"
	KindNetwork = "network"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder receives measurements from the Analyzer
type Recorder interface {
	RecordAnalysis(kind, status string, duration time.Duration)
	RecordCacheLookup(backend string, hit bool)
	RecordGraph(nodes, edges int, density float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, string, time.Duration) {}
func (nopRecorder) RecordCacheLookup(string, bool)               {}
func (nopRecorder) RecordGraph(int, int, float64)                {}
