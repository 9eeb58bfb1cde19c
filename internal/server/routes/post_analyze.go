package routes

import (
	"net/http"

	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/alerts"
	"github.com/vigia-labs/vigia/pkg/analysis"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// AnalyzeTextHandler runs ad-hoc risk analysis on a piece of text without
// persisting anything. Useful for tuning rules and patterns.
func AnalyzeTextHandler(c echo.Context) error {
	type analyzeBody struct {
		Text string `json:"text" validate:"required"`
	}

	type analyzeResponse struct {
		Message    string               `json:"message"`
		Assessment *analysis.Assessment `json:"assessment,omitempty"`
		Alerts     []alerts.Alert       `json:"alerts"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	assessment := app.Analyzer.Analyze(ctx, data.Text)

	fired := app.Engine.ProcessContent(ctx, alerts.Content{
		Keywords:       assessment.Keywords,
		PatternMatches: assessment.RiskFactors,
		Sentiment:      assessment.Sentiment.Label,
		Summary:        util.Summarize(data.Text),
	})
	if fired == nil {
		fired = []alerts.Alert{}
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Message:    "Text analyzed",
		Assessment: &assessment,
		Alerts:     fired,
	})
}
