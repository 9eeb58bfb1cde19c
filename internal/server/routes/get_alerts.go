package routes

import (
	"net/http"
	"time"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/pkg/alerts"

	"github.com/labstack/echo/v4"
)

func GetAlertsHandler(c echo.Context) error {
	type getAlertsParams struct {
		Rule   string `query:"rule"`
		Limit  int32  `query:"limit"`
		Offset int32  `query:"offset"`
	}

	params := new(getAlertsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	rows, err := q.ListCallAlerts(ctx, db.ListCallAlertsParams{
		RuleName: params.Rule,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, rows)
}

func GetRulesHandler(c echo.Context) error {
	type ruleResponse struct {
		Name       string         `json:"name"`
		Severity   string         `json:"severity"`
		Cooldown   string         `json:"cooldown"`
		Conditions []string       `json:"conditions"`
		History    []alerts.Alert `json:"history"`
	}

	engine := c.(*middleware.AppContext).App.Engine

	rules := engine.Rules()
	resp := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		conditions := make([]string, 0, len(rule.Conditions))
		for _, condition := range rule.Conditions {
			conditions = append(conditions, condition.Describe())
		}
		history := engine.History(rule.Name)
		if history == nil {
			history = []alerts.Alert{}
		}
		resp = append(resp, ruleResponse{
			Name:       rule.Name,
			Severity:   rule.Severity,
			Cooldown:   rule.Cooldown.Round(time.Second).String(),
			Conditions: conditions,
			History:    history,
		})
	}

	return c.JSON(http.StatusOK, resp)
}
