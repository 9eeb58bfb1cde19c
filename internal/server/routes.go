package server

import (
	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Call routes
	apiRoutes.POST("/calls", routes.CreateCallHandler)
	apiRoutes.GET("/calls", routes.GetCallsHandler)
	apiRoutes.GET("/calls/:id", routes.GetCallHandler)
	apiRoutes.GET("/calls/:id/similar", routes.GetSimilarCallsHandler)

	// Ad-hoc analysis
	apiRoutes.POST("/analyze", routes.AnalyzeTextHandler)

	// Contact network routes
	apiRoutes.GET("/network", routes.GetNetworkHandler)
	apiRoutes.GET("/network/viz", routes.GetNetworkVizHandler)

	// Alert routes
	apiRoutes.GET("/alerts", routes.GetAlertsHandler)
	apiRoutes.GET("/rules", routes.GetRulesHandler)
}
