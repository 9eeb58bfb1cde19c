package db

import (
	"context"
	"encoding/json"
)

type AddContactInteractionParams struct {
	Source      string
	Target      string
	SourceType  string
	TargetType  string
	Weight      float64
	Interaction json.RawMessage
}

// AddContactInteraction accumulates a directed edge: weight is added and the
// interaction appended to the edge's jsonb log. Node types keep their first
// recorded value.
func (q *Queries) AddContactInteraction(ctx context.Context, arg AddContactInteractionParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO contact_edges (source, target, source_type, target_type, weight, interactions)
		VALUES ($1, $2, $3, $4, $5, jsonb_build_array($6::jsonb))
		ON CONFLICT (source, target) DO UPDATE
		SET weight = contact_edges.weight + EXCLUDED.weight,
			interactions = contact_edges.interactions || EXCLUDED.interactions,
			updated_at = now()`,
		arg.Source,
		arg.Target,
		arg.SourceType,
		arg.TargetType,
		arg.Weight,
		arg.Interaction,
	)
	return err
}

func (q *Queries) ListContactEdges(ctx context.Context) ([]ContactEdge, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, source, target, source_type, target_type, weight, interactions, updated_at
		FROM contact_edges
		ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]ContactEdge, 0)
	for rows.Next() {
		var e ContactEdge
		err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.Target,
			&e.SourceType,
			&e.TargetType,
			&e.Weight,
			&e.Interactions,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
