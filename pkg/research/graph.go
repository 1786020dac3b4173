package research

import (
	"fmt"
	"strings"
)

const (
	// NodesPerCategory is the number of nodes generated for each category
	NodesPerCategory = 20
	// EdgeProbability is the chance that any pair of distinct nodes is linked
	EdgeProbability = 0.3
)

// EdgeTypes is the vocabulary edge types are drawn from, uniformly
var EdgeTypes = []string{
	"collaboration",
	"citation",
	"methodology_sharing",
	"data_sharing",
	"theoretical_influence",
}

// GraphBuilder generates random research collaboration graphs
type GraphBuilder struct {
	source Source
}

// NewGraphBuilder creates a graph builder drawing from source
func NewGraphBuilder(source Source) *GraphBuilder {
	return &GraphBuilder{source: source}
}

// NodeID returns the id of the i-th node of a category
func NodeID(category string, i int) string {
	return fmt.Sprintf("%s_node_%d", category, i)
}

// Build generates NodesPerCategory nodes for every distinct category and links
// every unordered node pair with probability EdgeProbability.
func (b *GraphBuilder) Build(categories []string) ([]NetworkNode, []NetworkEdge) {
	categories = uniqueCategories(categories)

	nodes := make([]NetworkNode, 0, len(categories)*NodesPerCategory)
	for _, category := range categories {
		for i := 0; i < NodesPerCategory; i++ {
			nodes = append(nodes, b.newNode(category, i))
		}
	}

	// Every candidate pair is visited; the quadratic walk defines the edge-count distribution.
	edges := make([]NetworkEdge, 0)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if b.source.Float64() >= EdgeProbability {
				continue
			}
			edges = append(edges, NetworkEdge{
				Source: nodes[i].ID,
				Target: nodes[j].ID,
				Weight: b.source.Float64(),
				Type:   EdgeTypes[b.source.IntN(len(EdgeTypes))],
			})
		}
	}

	return nodes, edges
}

func (b *GraphBuilder) newNode(category string, i int) NetworkNode {
	return NetworkNode{
		ID:        NodeID(category, i),
		Label:     fmt.Sprintf("%s Research %d", strings.ToUpper(category), i),
		Category:  category,
		Influence: b.source.Float64(),
		Properties: map[string]float64{
			PropResearchDepth:      b.source.Float64() * 10,
			PropCollaborationCount: float64(b.source.IntN(50)),
			PropPublicationCount:   float64(b.source.IntN(100)),
			PropImpactFactor:       b.source.Float64() * 5,
		},
	}
}

// uniqueCategories drops repeated categories, keeping first occurrences in order
func uniqueCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	unique := make([]string, 0, len(categories))
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}
	return unique
}
