package network

import (
	"math"
	"reflect"
	"sync"
	"testing"
)

func TestAddInteractionAccumulatesWeight(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	n.AddInteraction(InteractionParams{Source: "A", Target: "B", Type: "call", Weight: 0.6})
	n.AddInteraction(InteractionParams{Source: "A", Target: "B", Type: "call", Weight: 0.3})

	weight, interactions, ok := n.EdgeState("A", "B")
	if !ok {
		t.Fatal("expected edge A->B to exist")
	}
	if math.Abs(weight-0.9) > 1e-9 {
		t.Errorf("expected weight 0.9, got %v", weight)
	}
	if len(interactions) != 2 {
		t.Errorf("expected 2 interactions, got %d", len(interactions))
	}
	if n.NodeCount() != 2 || n.EdgeCount() != 1 {
		t.Errorf("expected 2 nodes and 1 edge, got %d nodes and %d edges", n.NodeCount(), n.EdgeCount())
	}
}

func TestAddInteractionZeroWeight(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	n.AddInteraction(InteractionParams{Source: "A", Target: "B", Type: "call"})
	n.AddInteraction(InteractionParams{Source: "A", Target: "B", Type: "call", Weight: 0.4})

	weight, interactions, ok := n.EdgeState("A", "B")
	if !ok {
		t.Fatal("expected edge A->B to exist")
	}
	if math.Abs(weight-0.4) > 1e-9 {
		t.Errorf("expected zero-weight interaction to add nothing, got %v", weight)
	}
	if len(interactions) != 2 {
		t.Errorf("expected both interactions logged, got %d", len(interactions))
	}
}

func TestDirectionsAreDistinctEdges(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	n.AddInteraction(InteractionParams{Source: "A", Target: "B", Type: "call", Weight: 0.6})
	n.AddInteraction(InteractionParams{Source: "B", Target: "A", Type: "call", Weight: 0.3})

	if n.EdgeCount() != 2 {
		t.Fatalf("expected 2 edges, got %d", n.EdgeCount())
	}
	forward, _, _ := n.EdgeState("A", "B")
	backward, _, _ := n.EdgeState("B", "A")
	if forward != 0.6 || backward != 0.3 {
		t.Errorf("expected weights 0.6 and 0.3, got %v and %v", forward, backward)
	}
}

func TestInteractionLogPreservesOrder(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	n.AddInteraction(InteractionParams{
		Source: "A", Target: "B", Type: "call",
		Metadata: map[string]string{"transcription": "first"},
	})
	n.AddInteraction(InteractionParams{
		Source: "A", Target: "B", Type: "sms",
		Metadata: map[string]string{"transcription": "second"},
	})

	_, interactions, _ := n.EdgeState("A", "B")
	expected := []Interaction{
		{Type: "call", Metadata: map[string]string{"transcription": "first"}},
		{Type: "sms", Metadata: map[string]string{"transcription": "second"}},
	}
	if !reflect.DeepEqual(interactions, expected) {
		t.Errorf("expected %v, got %v", expected, interactions)
	}
}

func TestNodeTypeFirstWriteWins(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	n.AddInteraction(InteractionParams{Source: "A", Target: "B", SourceType: "internal"})
	n.AddInteraction(InteractionParams{Source: "A", Target: "B", SourceType: "external"})
	n.AddInteraction(InteractionParams{Source: "C", Target: "A"})

	viz := n.Visualization()
	types := map[string]string{}
	for _, node := range viz.Nodes {
		types[node.ID] = node.Type
	}
	if types["A"] != "internal" {
		t.Errorf("expected node A to keep type internal, got %q", types["A"])
	}
	if types["B"] != "other" || types["C"] != "other" {
		t.Errorf("expected default type other, got B=%q C=%q", types["B"], types["C"])
	}
}

func TestConcurrentAddInteraction(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.AddInteraction(InteractionParams{Source: "A", Target: "B", Weight: 0.5})
		}()
	}
	wg.Wait()

	weight, interactions, _ := n.EdgeState("A", "B")
	if math.Abs(weight-50) > 1e-6 {
		t.Errorf("expected weight 50, got %v", weight)
	}
	if len(interactions) != 100 {
		t.Errorf("expected 100 interactions, got %d", len(interactions))
	}
}

func TestMetricsEmptyNetwork(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	m := n.Metrics()
	if m.Density != 0 || m.AvgClustering != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
	if m.Centrality != nil {
		t.Errorf("expected no centrality block, got %+v", m.Centrality)
	}
}

func TestMetricsSingleNode(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})
	n.AddInteraction(InteractionParams{Source: "A", Target: "A"})

	m := n.Metrics()
	if m.Density != 0 {
		t.Errorf("expected density 0, got %v", m.Density)
	}
	if m.Centrality == nil {
		t.Fatal("expected centrality block")
	}
	if m.Centrality.Degree["A"] != 1 {
		t.Errorf("expected degree centrality 1 for single node, got %v", m.Centrality.Degree["A"])
	}
}

func TestMetricsPathGraph(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})
	n.AddInteraction(InteractionParams{Source: "A", Target: "B"})
	n.AddInteraction(InteractionParams{Source: "B", Target: "C"})

	m := n.Metrics()

	if math.Abs(m.Density-1.0/3.0) > 1e-9 {
		t.Errorf("expected density 1/3, got %v", m.Density)
	}
	if m.AvgClustering != 0 {
		t.Errorf("expected clustering 0 on a path, got %v", m.AvgClustering)
	}

	expectedDegree := map[string]float64{"A": 0.5, "B": 1, "C": 0.5}
	if !reflect.DeepEqual(m.Centrality.Degree, expectedDegree) {
		t.Errorf("expected degree %v, got %v", expectedDegree, m.Centrality.Degree)
	}

	// B sits on the only shortest path A->C; normalized by (n-1)(n-2) = 2.
	expectedBetweenness := map[string]float64{"A": 0, "B": 0.5, "C": 0}
	if !reflect.DeepEqual(m.Centrality.Betweenness, expectedBetweenness) {
		t.Errorf("expected betweenness %v, got %v", expectedBetweenness, m.Centrality.Betweenness)
	}
}

func TestMetricsTriangleClustering(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})
	n.AddInteraction(InteractionParams{Source: "A", Target: "B"})
	n.AddInteraction(InteractionParams{Source: "B", Target: "C"})
	n.AddInteraction(InteractionParams{Source: "C", Target: "A"})

	m := n.Metrics()
	if math.Abs(m.AvgClustering-1) > 1e-9 {
		t.Errorf("expected average clustering 1 on a triangle, got %v", m.AvgClustering)
	}
	if math.Abs(m.Density-0.5) > 1e-9 {
		t.Errorf("expected density 0.5, got %v", m.Density)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	build := func(seed int64) *Network {
		n := NewNetwork(NewNetworkParams{LayoutSeed: seed})
		n.AddInteraction(InteractionParams{Source: "A", Target: "B"})
		n.AddInteraction(InteractionParams{Source: "B", Target: "C"})
		n.AddInteraction(InteractionParams{Source: "C", Target: "A"})
		n.AddInteraction(InteractionParams{Source: "A", Target: "D"})
		return n
	}

	first := build(42).Layout()
	second := build(42).Layout()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical layouts for identical seeds, got %v and %v", first, second)
	}

	other := build(7).Layout()
	if reflect.DeepEqual(first, other) {
		t.Error("expected different layouts for different seeds")
	}
}

func TestVisualizationEmptyNetwork(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})

	viz := n.Visualization()
	if len(viz.Nodes) != 0 || len(viz.Edges) != 0 {
		t.Errorf("expected empty payload, got %+v", viz)
	}
}

func TestVisualizationNodesAndEdges(t *testing.T) {
	n := NewNetwork(NewNetworkParams{})
	n.AddInteraction(InteractionParams{
		Source: "+15550001", Target: "+15550002",
		Type:       "call",
		Weight:     1,
		SourceType: "internal",
		Metadata:   map[string]string{"transcription": "meet at the usual spot"},
	})
	n.AddInteraction(InteractionParams{
		Source: "+15550001", Target: "+15550002",
		Type:   "call",
		Weight: 1,
	})

	viz := n.Visualization()
	if len(viz.Nodes) != 2 || len(viz.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", len(viz.Nodes), len(viz.Edges))
	}

	source := viz.Nodes[0]
	if source.Color != "#d62728" {
		t.Errorf("expected internal node color #d62728, got %q", source.Color)
	}
	if source.Label != "+15550001 (type: internal)" {
		t.Errorf("unexpected label %q", source.Label)
	}
	if viz.Nodes[1].Color != "#1f77b4" {
		t.Errorf("expected default node color #1f77b4, got %q", viz.Nodes[1].Color)
	}

	expectedHover := "+15550001 → +15550002:\n- meet at the usual spot\n- [No transcription]"
	if viz.Edges[0].Hover != expectedHover {
		t.Errorf("expected hover %q, got %q", expectedHover, viz.Edges[0].Hover)
	}
	if viz.Edges[0].Weight != 2 {
		t.Errorf("expected weight 2, got %v", viz.Edges[0].Weight)
	}
}

func TestVisualizationTruncatesLongTranscription(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "confirm"
	}

	n := NewNetwork(NewNetworkParams{})
	n.AddInteraction(InteractionParams{
		Source: "A", Target: "B",
		Metadata: map[string]string{"transcription": long},
	})

	viz := n.Visualization()
	hover := viz.Edges[0].Hover
	expected := "A → B:\n- " + long[:100] + "..."
	if hover != expected {
		t.Errorf("expected hover %q, got %q", expected, hover)
	}
}
