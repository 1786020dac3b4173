package research

// Centrality scores every node by its degree divided by the total node count.
// Nodes without edges score 0.
func Centrality(nodes []NetworkNode, edges []NetworkEdge) map[string]float64 {
	degree := make(map[string]int, len(nodes))
	for _, e := range edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	scores := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		scores[n.ID] = float64(degree[n.ID]) / float64(len(nodes))
	}
	return scores
}

// Density is the share of possible undirected edges that are present.
// Graphs with fewer than two nodes have density 0.
func Density(nodes []NetworkNode, edges []NetworkEdge) float64 {
	n := len(nodes)
	if n <= 1 {
		return 0
	}
	maxEdges := float64(n) * float64(n-1) / 2
	return float64(len(edges)) / maxEdges
}
