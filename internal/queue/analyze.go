package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/alerts"
	"github.com/vigia-labs/vigia/pkg/analysis"
	"github.com/vigia-labs/vigia/pkg/logger"
	"github.com/vigia-labs/vigia/pkg/network"

	"github.com/jackc/pgx/v5/pgxpool"
)

// riskWeight converts a 0-100 risk level into the edge weight contributed
// by one call. A zero-risk call still records an interaction, with weight 0.
func riskWeight(level int) float64 {
	return float64(level) / 100
}

// ProcessAnalyze runs risk analysis on a transcribed call, records the
// contact edge with a risk-derived weight, and evaluates alert rules
// against the result. The contact graph served by the API is rebuilt from
// the stored edges, so this is the sole aggregation write path.
func ProcessAnalyze(
	ctx context.Context,
	analyzer *analysis.ContentAnalyzer,
	engine *alerts.Engine,
	conn *pgxpool.Pool,
	msg string,
) error {
	var data AnalyzeCallMsg
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return fmt.Errorf("failed to unmarshal analyze message: %w", err)
	}

	q := db.New(conn)

	call, err := q.GetCallByPublicID(ctx, data.CallID)
	if err != nil {
		return fmt.Errorf("failed to load call %s: %w", data.CallID, err)
	}
	if call.Transcription == nil || *call.Transcription == "" {
		return fmt.Errorf("call %s has no transcription", call.PublicID)
	}
	transcription := *call.Transcription

	err = q.SetCallStatus(ctx, db.SetCallStatusParams{
		PublicID: call.PublicID,
		Status:   "analyzing",
	})
	if err != nil {
		return fmt.Errorf("failed to set call status: %w", err)
	}

	assessment := analyzer.Analyze(ctx, transcription)
	if assessment.Sentiment.Err != "" {
		logger.Warn("[Analyze] Sentiment unavailable", "call_id", call.PublicID, "err", assessment.Sentiment.Err)
	}

	summary := util.Summarize(transcription)

	var sentiment *string
	if assessment.Sentiment.Err == "" {
		label := assessment.Sentiment.Label
		sentiment = &label
	}
	err = q.UpdateCallAnalysis(ctx, db.UpdateCallAnalysisParams{
		PublicID:    call.PublicID,
		RiskLevel:   int32(assessment.RiskLevel),
		RiskFactors: assessment.RiskFactors,
		Keywords:    assessment.Keywords,
		Sentiment:   sentiment,
		Summary:     summary,
		Status:      "analyzed",
	})
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	interaction := network.Interaction{
		Type: "call",
		Metadata: map[string]string{
			"call_id":       call.PublicID,
			"transcription": transcription,
		},
	}
	interactionJSON, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}
	err = q.AddContactInteraction(ctx, db.AddContactInteractionParams{
		Source:      call.Source,
		Target:      call.Destination,
		SourceType:  "internal",
		TargetType:  "other",
		Weight:      riskWeight(assessment.RiskLevel),
		Interaction: interactionJSON,
	})
	if err != nil {
		return fmt.Errorf("failed to store contact edge: %w", err)
	}

	fired := engine.ProcessContent(ctx, alerts.Content{
		Keywords:       assessment.Keywords,
		PatternMatches: assessment.RiskFactors,
		Sentiment:      assessment.Sentiment.Label,
		Summary:        summary,
	})
	for _, alert := range fired {
		_, err := q.CreateCallAlert(ctx, db.CreateCallAlertParams{
			CallPublicID:      call.PublicID,
			RuleName:          alert.RuleName,
			Severity:          alert.Severity,
			MatchedConditions: alert.MatchedConditions,
			Summary:           alert.Summary,
			TriggeredAt:       alert.Timestamp,
		})
		if err != nil {
			logger.Error("[Analyze] Failed to store alert", "rule", alert.RuleName, "err", err)
		}
	}

	logger.Info(
		"[Analyze] Call analyzed",
		"call_id", call.PublicID,
		"risk_level", assessment.RiskLevel,
		"risk_factors", assessment.RiskFactors,
		"alerts", len(fired),
	)
	return nil
}
