package ai

import (
	"context"
)

// Sentiment is the emotional tone assigned to a piece of transcript text.
// Label carries the classifier's verdict (e.g. "POSITIVE"/"NEGATIVE") and
// Score its confidence in [0, 1].
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// GenerateOptions holds configuration for AI requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// SentimentClassifier classifies the emotional tone of a block of text.
// Implementations may call a remote model; errors are returned to the
// caller, which decides whether to degrade or propagate.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (Sentiment, error)
}

// CallAIClient defines the AI operations the call-analysis pipeline depends
// on: transcribing recordings, classifying transcript sentiment, and
// embedding transcripts for similarity search.
type CallAIClient interface {
	SentimentClassifier

	GenerateAudioTranscription(
		ctx context.Context,
		audio []byte,
		language string,
	) (string, error)

	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
