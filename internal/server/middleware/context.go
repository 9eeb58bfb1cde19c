package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/vigia-labs/vigia/pkg/ai"
	"github.com/vigia-labs/vigia/pkg/alerts"
	"github.com/vigia-labs/vigia/pkg/analysis"
)

// App bundles every dependency the route handlers need. Instances are built
// once at startup and injected here rather than reached for globally.
type App struct {
	DBConn     *pgxpool.Pool
	Queue      *amqp091.Channel
	S3         *s3.Client
	AiClient   ai.CallAIClient
	Analyzer   *analysis.ContentAnalyzer
	Engine     *alerts.Engine
	APIKey     string
	LayoutSeed int64
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
