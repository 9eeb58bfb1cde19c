package openai

import (
	"sync"

	"github.com/vigia-labs/vigia/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// CallOpenAIClient implements ai.CallAIClient against OpenAI-compatible
// endpoints. It manages separate clients for chat (sentiment), embeddings,
// and audio transcription so each concern can point at its own deployment.
//
// A CallOpenAIClient should be created using NewCallOpenAIClient.
type CallOpenAIClient struct {
	sentimentModel string
	embeddingModel string
	audioModel     string

	chatURL      string
	chatKey      string
	embeddingURL string
	embeddingKey string
	audioURL     string
	audioKey     string

	timeoutMin int64
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
	AudioClient     *openai.Client
}

// NewCallOpenAIClientParams defines the configuration for creating a new
// CallOpenAIClient. Each concern (sentiment chat, embeddings, audio) has its
// own model, URL and key so they can be split across providers.
type NewCallOpenAIClientParams struct {
	SentimentModel string
	EmbeddingModel string
	AudioModel     string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string
	AudioURL     string
	AudioKey     string

	TimeoutMinutes        int64
	MaxConcurrentRequests int64
}

// NewCallOpenAIClient creates a client configured with the provided
// parameters.
func NewCallOpenAIClient(params NewCallOpenAIClientParams) *CallOpenAIClient {
	if params.TimeoutMinutes <= 0 {
		params.TimeoutMinutes = 5
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 15
	}

	return &CallOpenAIClient{
		sentimentModel: params.SentimentModel,
		embeddingModel: params.EmbeddingModel,
		audioModel:     params.AudioModel,

		chatURL:      params.ChatURL,
		chatKey:      params.ChatKey,
		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,
		audioURL:     params.AudioURL,
		audioKey:     params.AudioKey,

		timeoutMin: params.TimeoutMinutes,
		reqLock:    semaphore.NewWeighted(params.MaxConcurrentRequests),

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
		AudioClient:     newOpenaiClient(params.AudioURL, params.AudioKey),
	}
}

// GetMetrics returns the accumulated model metrics.
func (c *CallOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics clears the accumulated model metrics.
func (c *CallOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

func (c *CallOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
