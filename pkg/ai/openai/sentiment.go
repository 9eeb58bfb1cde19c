package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/vigia-labs/vigia/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/pkoukk/tiktoken-go"
)

// sentimentTokenLimit caps how much of a transcript is sent to the sentiment
// model. Long calls carry their tone in any sizeable window; the limit keeps
// requests inside the model's context.
const sentimentTokenLimit = 4096

const sentimentSystemPrompt = "You are a sentiment classifier for phone-call transcripts. " +
	"Classify the overall emotional tone of the conversation as POSITIVE, NEGATIVE or NEUTRAL " +
	"and report your confidence between 0 and 1."

type sentimentResponse struct {
	Label string  `json:"label" jsonschema:"enum=POSITIVE,enum=NEGATIVE,enum=NEUTRAL" jsonschema_description:"Overall emotional tone of the transcript"`
	Score float64 `json:"score" jsonschema_description:"Classifier confidence between 0 and 1"`
}

// ClassifySentiment classifies the emotional tone of the given text using the
// configured sentiment model with structured output.
func (c *CallOpenAIClient) ClassifySentiment(
	ctx context.Context,
	text string,
) (ai.Sentiment, error) {
	client := c.ChatClient
	if client == nil {
		return ai.Sentiment{}, fmt.Errorf("chat client not configured")
	}
	if text == "" {
		return ai.Sentiment{}, fmt.Errorf("empty input text")
	}

	text = truncateTokens(text, sentimentTokenLimit)

	schema := ai.GenerateSchema(&sentimentResponse{})
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "sentiment",
		Description: openai.String("Sentiment classification of a call transcript"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.sentimentModel),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(sentimentSystemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0.0),
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return ai.Sentiment{}, err
	}
	defer c.reqLock.Release(1)

	start := time.Now()
	response, err := client.Chat.Completions.New(rCtx, body)
	if err != nil {
		return ai.Sentiment{}, err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	if len(response.Choices) == 0 {
		return ai.Sentiment{}, fmt.Errorf("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return ai.Sentiment{}, fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}

	var out sentimentResponse
	if err := ai.UnmarshalFlexible(message, &out); err != nil {
		return ai.Sentiment{}, err
	}

	return ai.Sentiment{
		Label: out.Label,
		Score: out.Score,
	}, nil
}

func truncateTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// Fall back to a rough character budget if the encoder is unavailable.
		if len(text) > limit*4 {
			return text[:limit*4]
		}
		return text
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}
