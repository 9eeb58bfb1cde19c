package network

import (
	"fmt"
	"strings"

	"github.com/vigia-labs/vigia/internal/util"
)

const (
	colorInternal = "#d62728"
	colorOther    = "#1f77b4"

	hoverExcerptRunes = 100
)

// VizNode is one positioned node of the rendered network.
type VizNode struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Degree int     `json:"degree"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// VizEdge is one directed edge of the rendered network, with endpoint
// coordinates and hover text listing its interactions.
type VizEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Hover  string  `json:"hover"`
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
}

// Visualization is a render-ready view of the network: laid-out nodes and
// edges with display labels, colors, and hover text.
type Visualization struct {
	Nodes []VizNode `json:"nodes"`
	Edges []VizEdge `json:"edges"`
}

// Visualization builds the render payload from a consistent snapshot. An
// empty network yields an empty payload.
func (n *Network) Visualization() Visualization {
	s := n.snapshot()
	positions := layoutPositions(s, n.layoutSeed)

	viz := Visualization{
		Nodes: make([]VizNode, 0, len(s.nodeOrder)),
		Edges: make([]VizEdge, 0, len(s.edgeOrder)),
	}

	for _, id := range s.nodeOrder {
		nodeType := s.nodeTypes[id]
		color := colorOther
		if nodeType == "internal" {
			color = colorInternal
		}
		viz.Nodes = append(viz.Nodes, VizNode{
			ID:     id,
			Type:   nodeType,
			Label:  fmt.Sprintf("%s (type: %s)", id, nodeType),
			Color:  color,
			Degree: len(s.succ[id]) + len(s.pred[id]),
			X:      positions[id].X,
			Y:      positions[id].Y,
		})
	}

	for _, key := range s.edgeOrder {
		viz.Edges = append(viz.Edges, VizEdge{
			Source: key.source,
			Target: key.target,
			Weight: s.weights[key],
			Hover:  hoverText(key, s.logs[key]),
			X0:     positions[key.source].X,
			Y0:     positions[key.source].Y,
			X1:     positions[key.target].X,
			Y1:     positions[key.target].Y,
		})
	}
	return viz
}

// hoverText lists an edge's interactions, one transcript excerpt per line.
func hoverText(key edgeKey, interactions []Interaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s:", key.source, key.target)
	for _, interaction := range interactions {
		transcription := interaction.Metadata["transcription"]
		if transcription == "" {
			transcription = "[No transcription]"
		}
		fmt.Fprintf(&b, "\n- %s", util.Excerpt(transcription, hoverExcerptRunes))
	}
	return b.String()
}
