package research

import "time"

// Metadata and property keys
const (
	MetaCitationCount          = "citation_count"
	MetaInterdisciplinaryScore = "interdisciplinary_score"
	MetaPracticalApplication   = "practical_application"
	MetaEthicalConsiderations  = "ethical_considerations"
	MetaTechnicalComplexity    = "technical_complexity"

	PropResearchDepth      = "research_depth"
	PropCollaborationCount = "collaboration_count"
	PropPublicationCount   = "publication_count"
	PropImpactFactor       = "impact_factor"
)

// ResearchMetric is one synthetic observation for a category.
// Values are never modified once generated; cached series are shared between callers.
type ResearchMetric struct {
	Category      string             `json:"category"`
	Impact        float64            `json:"impact"`
	Novelty       float64            `json:"novelty"`
	Collaboration float64            `json:"collaboration"`
	Timestamp     time.Time          `json:"timestamp"`
	Metadata      map[string]float64 `json:"metadata"`
}

// NetworkNode is a research group in the synthetic collaboration graph
type NetworkNode struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Category   string             `json:"category"`
	Influence  float64            `json:"influence"`
	Properties map[string]float64 `json:"properties"`
}

// NetworkEdge is an undirected link between two nodes of the same analysis
type NetworkEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

// NetworkAnalysis is the result of one network analysis request
type NetworkAnalysis struct {
	Nodes            []NetworkNode      `json:"nodes"`
	Edges            []NetworkEdge      `json:"edges"`
	CentralityScores map[string]float64 `json:"centralityScores"`
	NetworkDensity   float64            `json:"networkDensity"`
	AnalysisTime     time.Time          `json:"analysisTime"`
}

// IsEmpty reports whether the analysis has nothing worth returning
func (a *NetworkAnalysis) IsEmpty() bool {
	return a == nil || len(a.Nodes) == 0 || len(a.Edges) == 0
}
