package db

import (
	"context"
	"time"
)

type CreateCallAlertParams struct {
	CallPublicID      string
	RuleName          string
	Severity          string
	MatchedConditions []string
	Summary           string
	TriggeredAt       time.Time
}

func (q *Queries) CreateCallAlert(ctx context.Context, arg CreateCallAlertParams) (CallAlert, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO call_alerts (call_public_id, rule_name, severity, matched_conditions, summary, triggered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, call_public_id, rule_name, severity, matched_conditions, summary, triggered_at`,
		arg.CallPublicID,
		arg.RuleName,
		arg.Severity,
		arg.MatchedConditions,
		arg.Summary,
		arg.TriggeredAt,
	)
	var a CallAlert
	err := row.Scan(
		&a.ID,
		&a.CallPublicID,
		&a.RuleName,
		&a.Severity,
		&a.MatchedConditions,
		&a.Summary,
		&a.TriggeredAt,
	)
	return a, err
}

type ListCallAlertsParams struct {
	RuleName string
	Limit    int32
	Offset   int32
}

func (q *Queries) ListCallAlerts(ctx context.Context, arg ListCallAlertsParams) ([]CallAlert, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, call_public_id, rule_name, severity, matched_conditions, summary, triggered_at
		FROM call_alerts
		WHERE ($1 = '' OR rule_name = $1)
		ORDER BY triggered_at DESC
		LIMIT $2 OFFSET $3`,
		arg.RuleName,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]CallAlert, 0)
	for rows.Next() {
		var a CallAlert
		err := rows.Scan(
			&a.ID,
			&a.CallPublicID,
			&a.RuleName,
			&a.Severity,
			&a.MatchedConditions,
			&a.Summary,
			&a.TriggeredAt,
		)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
