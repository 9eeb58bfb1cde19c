package network

// CentralityMetrics holds per-node centrality scores, keyed by entity ID.
type CentralityMetrics struct {
	Degree      map[string]float64 `json:"degree"`
	Betweenness map[string]float64 `json:"betweenness"`
}

// Metrics summarizes the structure of the contact network.
//
// Density is computed on the directed graph. Clustering is a triangle
// concept, so it is computed on the undirected projection; centrality stays
// directed. The asymmetry is load-bearing for existing dashboards.
type Metrics struct {
	Density       float64            `json:"density"`
	AvgClustering float64            `json:"avg_clustering"`
	Centrality    *CentralityMetrics `json:"centrality,omitempty"`
}

// Metrics computes graph metrics on a consistent snapshot. An empty network
// yields zero density and clustering and no centrality block.
func (n *Network) Metrics() Metrics {
	s := n.snapshot()

	m := Metrics{
		Density:       density(s),
		AvgClustering: averageClustering(s),
	}
	if len(s.nodeOrder) > 0 {
		m.Centrality = &CentralityMetrics{
			Degree:      degreeCentrality(s),
			Betweenness: betweennessCentrality(s),
		}
	}
	return m
}

func density(s snapshot) float64 {
	n := len(s.nodeOrder)
	if n < 2 {
		return 0
	}
	return float64(len(s.edgeOrder)) / float64(n*(n-1))
}

// averageClustering computes the mean clustering coefficient over all nodes
// on the undirected projection, ignoring self-loops. Nodes with fewer than
// two neighbours contribute zero.
func averageClustering(s snapshot) float64 {
	n := len(s.nodeOrder)
	if n == 0 {
		return 0
	}

	adj := make(map[string]map[string]bool, n)
	for _, id := range s.nodeOrder {
		adj[id] = map[string]bool{}
	}
	for _, key := range s.edgeOrder {
		if key.source == key.target {
			continue
		}
		adj[key.source][key.target] = true
		adj[key.target][key.source] = true
	}

	total := 0.0
	for _, id := range s.nodeOrder {
		neighbors := make([]string, 0, len(adj[id]))
		for _, other := range s.nodeOrder {
			if adj[id][other] {
				neighbors = append(neighbors, other)
			}
		}
		k := len(neighbors)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if adj[neighbors[i]][neighbors[j]] {
					links++
				}
			}
		}
		total += 2 * float64(links) / float64(k*(k-1))
	}
	return total / float64(n)
}

// degreeCentrality normalizes each node's total degree (in plus out) by the
// maximum possible degree n-1.
func degreeCentrality(s snapshot) map[string]float64 {
	n := len(s.nodeOrder)
	out := make(map[string]float64, n)
	if n == 1 {
		out[s.nodeOrder[0]] = 1
		return out
	}
	for _, id := range s.nodeOrder {
		deg := len(s.succ[id]) + len(s.pred[id])
		out[id] = float64(deg) / float64(n-1)
	}
	return out
}

// betweennessCentrality implements Brandes' algorithm on the directed,
// unweighted graph, normalized by (n-1)(n-2) for n > 2.
func betweennessCentrality(s snapshot) map[string]float64 {
	bc := make(map[string]float64, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		bc[id] = 0
	}

	for _, source := range s.nodeOrder {
		var stack []string
		preds := map[string][]string{}
		sigma := map[string]float64{source: 1}
		dist := map[string]int{source: 0}
		queue := []string{source}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range s.succ[v] {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		delta := map[string]float64{}
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				bc[w] += delta[w]
			}
		}
	}

	n := len(s.nodeOrder)
	if n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for id := range bc {
			bc[id] *= scale
		}
	}
	return bc
}
