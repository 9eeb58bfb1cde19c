package network

import (
	"sync"
)

// Interaction is one recorded contact between two entities, in arrival
// order. Metadata typically carries a transcript excerpt under the
// "transcription" key for rendering.
type Interaction struct {
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata"`
}

type node struct {
	id       string
	nodeType string
}

type edgeKey struct {
	source string
	target string
}

type edge struct {
	weight       float64
	interactions []Interaction
}

// Network is a directed, weighted multigraph of who-contacted-whom,
// accumulated across analyzed calls. Edge weight only grows; A→B and B→A
// are distinct edges. All methods are safe for concurrent use: the sole
// mutator serializes its full read-modify-write, and readers work on a
// consistent snapshot.
type Network struct {
	mu        sync.RWMutex
	nodes     map[string]*node
	nodeOrder []string
	edges     map[edgeKey]*edge
	edgeOrder []edgeKey

	layoutSeed int64
}

// NewNetworkParams contains configuration for creating a Network.
type NewNetworkParams struct {
	// LayoutSeed seeds the force-directed layout PRNG so visualization
	// coordinates are reproducible. Defaults to 42.
	LayoutSeed int64
}

// NewNetwork creates an empty contact network.
func NewNetwork(params NewNetworkParams) *Network {
	seed := params.LayoutSeed
	if seed == 0 {
		seed = 42
	}
	return &Network{
		nodes:      map[string]*node{},
		edges:      map[edgeKey]*edge{},
		layoutSeed: seed,
	}
}

// InteractionParams describes one contact to record. Weight is applied as
// given, so a zero-risk contact legitimately adds weight 0; SourceType and
// TargetType default to "other".
type InteractionParams struct {
	Source string
	Target string
	Type   string

	Weight   float64
	Metadata map[string]string

	SourceType string
	TargetType string
}

// AddInteraction records a directed contact from source to target, creating
// nodes and the edge lazily. A node's type is set on first reference and not
// overwritten by later calls. The edge accumulates weight and appends the
// interaction in call order.
func (n *Network) AddInteraction(params InteractionParams) {
	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.ensureNode(params.Source, params.SourceType)
	n.ensureNode(params.Target, params.TargetType)

	key := edgeKey{source: params.Source, target: params.Target}
	e, ok := n.edges[key]
	if !ok {
		e = &edge{}
		n.edges[key] = e
		n.edgeOrder = append(n.edgeOrder, key)
	}
	e.weight += params.Weight
	e.interactions = append(e.interactions, Interaction{
		Type:     params.Type,
		Metadata: metadata,
	})
}

func (n *Network) ensureNode(id string, nodeType string) {
	if _, ok := n.nodes[id]; ok {
		return
	}
	if nodeType == "" {
		nodeType = "other"
	}
	n.nodes[id] = &node{id: id, nodeType: nodeType}
	n.nodeOrder = append(n.nodeOrder, id)
}

// NodeCount returns the number of entities in the network.
func (n *Network) NodeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.nodes)
}

// EdgeCount returns the number of distinct directed edges.
func (n *Network) EdgeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.edges)
}

// EdgeState reports the accumulated weight and interaction log of a directed
// edge. The returned slice is a copy.
func (n *Network) EdgeState(source, target string) (float64, []Interaction, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	e, ok := n.edges[edgeKey{source: source, target: target}]
	if !ok {
		return 0, nil, false
	}
	interactions := make([]Interaction, len(e.interactions))
	copy(interactions, e.interactions)
	return e.weight, interactions, true
}

// snapshot is an immutable copy of the graph used by the read paths so
// metric and layout computation never observes a partially-updated edge.
type snapshot struct {
	nodeOrder []string
	nodeTypes map[string]string
	edgeOrder []edgeKey
	weights   map[edgeKey]float64
	logs      map[edgeKey][]Interaction

	// succ/pred hold directed adjacency in first-reference order.
	succ map[string][]string
	pred map[string][]string
}

func (n *Network) snapshot() snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	s := snapshot{
		nodeOrder: append([]string(nil), n.nodeOrder...),
		nodeTypes: make(map[string]string, len(n.nodes)),
		edgeOrder: append([]edgeKey(nil), n.edgeOrder...),
		weights:   make(map[edgeKey]float64, len(n.edges)),
		logs:      make(map[edgeKey][]Interaction, len(n.edges)),
		succ:      make(map[string][]string, len(n.nodes)),
		pred:      make(map[string][]string, len(n.nodes)),
	}
	for id, nd := range n.nodes {
		s.nodeTypes[id] = nd.nodeType
	}
	for _, key := range n.edgeOrder {
		e := n.edges[key]
		s.weights[key] = e.weight
		s.logs[key] = append([]Interaction(nil), e.interactions...)
		s.succ[key.source] = append(s.succ[key.source], key.target)
		s.pred[key.target] = append(s.pred[key.target], key.source)
	}
	return s
}
