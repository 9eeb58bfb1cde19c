package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/pkg/logger"
	"github.com/vigia-labs/vigia/pkg/network"

	"github.com/labstack/echo/v4"
)

// loadNetwork rebuilds the contact network from the persisted edge log, so
// the API serves the same graph the workers have accumulated.
func loadNetwork(ctx context.Context, q *db.Queries, layoutSeed int64) (*network.Network, error) {
	edges, err := q.ListContactEdges(ctx)
	if err != nil {
		return nil, err
	}

	net := network.NewNetwork(network.NewNetworkParams{LayoutSeed: layoutSeed})
	for _, edge := range edges {
		var interactions []network.Interaction
		if err := json.Unmarshal(edge.Interactions, &interactions); err != nil {
			logger.Warn("Skipping malformed interaction log", "source", edge.Source, "target", edge.Target, "err", err)
			continue
		}
		if len(interactions) == 0 {
			continue
		}
		// Replay interactions so the total edge weight matches the stored
		// accumulated weight.
		perInteraction := edge.Weight / float64(len(interactions))
		for _, interaction := range interactions {
			net.AddInteraction(network.InteractionParams{
				Source:     edge.Source,
				Target:     edge.Target,
				Type:       interaction.Type,
				Weight:     perInteraction,
				Metadata:   interaction.Metadata,
				SourceType: edge.SourceType,
				TargetType: edge.TargetType,
			})
		}
	}
	return net, nil
}

func GetNetworkHandler(c echo.Context) error {
	type getNetworkResponse struct {
		Message   string          `json:"message"`
		NodeCount int             `json:"node_count"`
		EdgeCount int             `json:"edge_count"`
		Metrics   network.Metrics `json:"metrics"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	net, err := loadNetwork(ctx, q, app.LayoutSeed)
	if err != nil {
		logger.Error("Failed to load contact network", "err", err)
		return c.JSON(http.StatusInternalServerError, getNetworkResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getNetworkResponse{
		Message:   "Network metrics computed",
		NodeCount: net.NodeCount(),
		EdgeCount: net.EdgeCount(),
		Metrics:   net.Metrics(),
	})
}

func GetNetworkVizHandler(c echo.Context) error {
	type getNetworkVizResponse struct {
		Message       string                 `json:"message"`
		Visualization *network.Visualization `json:"visualization,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	net, err := loadNetwork(ctx, q, app.LayoutSeed)
	if err != nil {
		logger.Error("Failed to load contact network", "err", err)
		return c.JSON(http.StatusInternalServerError, getNetworkVizResponse{
			Message: "Internal server error",
		})
	}

	viz := net.Visualization()
	return c.JSON(http.StatusOK, getNetworkVizResponse{
		Message:       "Network rendered",
		Visualization: &viz,
	})
}
