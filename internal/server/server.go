package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vigia-labs/vigia/internal/queue"
	mid "github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/internal/storage"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/ai"
	olai "github.com/vigia-labs/vigia/pkg/ai/ollama"
	oai "github.com/vigia-labs/vigia/pkg/ai/openai"
	"github.com/vigia-labs/vigia/pkg/alerts"
	"github.com/vigia-labs/vigia/pkg/analysis"
	"github.com/vigia-labs/vigia/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewCallAIClient builds the configured AI adapter from the environment.
func NewCallAIClient() ai.CallAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := olai.NewCallOllamaClient(olai.NewCallOllamaClientParams{
			SentimentModel: util.GetEnv("AI_SENTIMENT_MODEL"),
			EmbeddingModel: util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return oai.NewCallOpenAIClient(oai.NewCallOpenAIClientParams{
			SentimentModel: util.GetEnv("AI_SENTIMENT_MODEL"),
			EmbeddingModel: util.GetEnv("AI_EMBED_MODEL"),
			AudioModel:     util.GetEnv("AI_AUDIO_MODEL"),

			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
			AudioURL:     util.GetEnv("AI_AUDIO_URL"),
			AudioKey:     util.GetEnv("AI_AUDIO_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
	}
}

// NewRiskEngine builds the content analyzer and alert engine every process
// shares: default categories and rules, alerts logged as they fire.
func NewRiskEngine(aiClient ai.CallAIClient) (*analysis.ContentAnalyzer, *alerts.Engine) {
	analyzer, err := analysis.NewContentAnalyzer(analysis.NewContentAnalyzerParams{
		Classifier: aiClient,
	})
	if err != nil {
		logger.Fatal("Failed to create content analyzer", "err", err)
	}

	engine := alerts.NewEngine(alerts.NewEngineParams{})
	for _, rule := range alerts.DefaultRules() {
		if err := engine.AddRule(rule); err != nil {
			logger.Fatal("Failed to register alert rule", "rule", rule.Name, "err", err)
		}
	}
	engine.AddHandler(func(ctx context.Context, alert alerts.Alert) error {
		logger.Warn(
			"Alert fired",
			"rule", alert.RuleName,
			"severity", alert.Severity,
			"conditions", alert.MatchedConditions,
		)
		return nil
	})

	return analyzer, engine
}

func RunMigrations() {
	m, err := migrate.New("file://migrations", util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	RunMigrations()

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()
	conn.Config().AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	err = queue.SetupQueues(ch, queue.Queues)
	if err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	s3 := storage.NewS3Client(ctx)

	aiClient := NewCallAIClient()
	analyzer, engine := NewRiskEngine(aiClient)

	app := &mid.App{
		DBConn:     conn,
		Queue:      ch,
		S3:         s3,
		AiClient:   aiClient,
		Analyzer:   analyzer,
		Engine:     engine,
		APIKey:     util.GetEnv("API_KEY"),
		LayoutSeed: int64(util.GetEnvNumeric("NETWORK_LAYOUT_SEED", 42)),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1G"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
