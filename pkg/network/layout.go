package network

import (
	"math"
	"math/rand"
)

// Point is a 2-D layout coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const layoutIterations = 50

// Layout computes force-directed positions for every node. The PRNG is
// seeded from the network's layout seed and nodes are processed in
// first-reference order, so repeated calls on the same graph produce
// identical coordinates.
func (n *Network) Layout() map[string]Point {
	return layoutPositions(n.snapshot(), n.layoutSeed)
}

// layoutPositions is a Fruchterman-Reingold spring layout on the undirected
// projection of the snapshot.
func layoutPositions(s snapshot, seed int64) map[string]Point {
	count := len(s.nodeOrder)
	positions := make(map[string]Point, count)
	if count == 0 {
		return positions
	}

	rng := rand.New(rand.NewSource(seed))
	for _, id := range s.nodeOrder {
		positions[id] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	if count == 1 {
		positions[s.nodeOrder[0]] = Point{}
		return positions
	}

	k := math.Sqrt(1 / float64(count))
	temperature := 0.1
	cooling := temperature / float64(layoutIterations+1)

	for iter := 0; iter < layoutIterations; iter++ {
		disp := make(map[string]Point, count)

		// Repulsion between every node pair.
		for i, u := range s.nodeOrder {
			for j, v := range s.nodeOrder {
				if i == j {
					continue
				}
				dx := positions[u].X - positions[v].X
				dy := positions[u].Y - positions[v].Y
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					dx, dy = jitter(rng)
					dist = math.Hypot(dx, dy)
				}
				force := k * k / dist
				d := disp[u]
				d.X += dx / dist * force
				d.Y += dy / dist * force
				disp[u] = d
			}
		}

		// Attraction along edges.
		for _, key := range s.edgeOrder {
			if key.source == key.target {
				continue
			}
			dx := positions[key.source].X - positions[key.target].X
			dy := positions[key.source].Y - positions[key.target].Y
			dist := math.Hypot(dx, dy)
			if dist < 1e-9 {
				dx, dy = jitter(rng)
				dist = math.Hypot(dx, dy)
			}
			force := dist * dist / k
			du := disp[key.source]
			du.X -= dx / dist * force
			du.Y -= dy / dist * force
			disp[key.source] = du
			dv := disp[key.target]
			dv.X += dx / dist * force
			dv.Y += dy / dist * force
			disp[key.target] = dv
		}

		// Displace, capped by the current temperature.
		for _, id := range s.nodeOrder {
			d := disp[id]
			length := math.Hypot(d.X, d.Y)
			if length < 1e-9 {
				continue
			}
			step := math.Min(length, temperature)
			p := positions[id]
			p.X += d.X / length * step
			p.Y += d.Y / length * step
			positions[id] = p
		}
		temperature -= cooling
	}

	// Recenter around the origin.
	var cx, cy float64
	for _, id := range s.nodeOrder {
		cx += positions[id].X
		cy += positions[id].Y
	}
	cx /= float64(count)
	cy /= float64(count)
	for _, id := range s.nodeOrder {
		p := positions[id]
		positions[id] = Point{X: p.X - cx, Y: p.Y - cy}
	}
	return positions
}

func jitter(rng *rand.Rand) (float64, float64) {
	return (rng.Float64() - 0.5) * 1e-4, (rng.Float64() - 0.5) * 1e-4
}
