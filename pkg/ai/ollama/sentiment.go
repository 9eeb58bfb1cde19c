package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vigia-labs/vigia/pkg/ai"

	"github.com/ollama/ollama/api"
)

const sentimentPrompt = "Classify the overall emotional tone of the following phone-call transcript " +
	"as POSITIVE, NEGATIVE or NEUTRAL and report your confidence between 0 and 1.\n\nTranscript:\n"

type sentimentResponse struct {
	Label string  `json:"label" jsonschema:"enum=POSITIVE,enum=NEGATIVE,enum=NEUTRAL" jsonschema_description:"Overall emotional tone of the transcript"`
	Score float64 `json:"score" jsonschema_description:"Classifier confidence between 0 and 1"`
}

// ClassifySentiment classifies the emotional tone of the given text using the
// configured sentiment model, enforcing a JSON schema on the response.
func (c *CallOllamaClient) ClassifySentiment(
	ctx context.Context,
	text string,
) (ai.Sentiment, error) {
	if text == "" {
		return ai.Sentiment{}, fmt.Errorf("empty input text")
	}

	schemaObj := ai.GenerateSchema(&sentimentResponse{})
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return ai.Sentiment{}, err
	}
	var format json.RawMessage = formatBytes

	stream := false
	req := &api.ChatRequest{
		Model: c.sentimentModel,
		Messages: []api.Message{
			{Role: "user", Content: sentimentPrompt + text},
		},
		Stream:  &stream,
		Format:  format,
		Options: map[string]any{"temperature": 0.0},
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return ai.Sentiment{}, err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(rCtx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return ai.Sentiment{}, err
	}

	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	}
	c.modifyMetrics(metrics)

	var out sentimentResponse
	if err := ai.UnmarshalFlexible(final.Message.Content, &out); err != nil {
		return ai.Sentiment{}, err
	}

	return ai.Sentiment{
		Label: out.Label,
		Score: out.Score,
	}, nil
}
