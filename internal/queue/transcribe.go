package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/storage"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/ai"
	"github.com/vigia-labs/vigia/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessTranscribe transcribes a call recording, embeds the transcript for
// similarity search, and forwards the call to the analyze queue.
func ProcessTranscribe(
	ctx context.Context,
	s3Client *s3.Client,
	aiClient ai.CallAIClient,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	var data TranscribeCallMsg
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return fmt.Errorf("failed to unmarshal transcribe message: %w", err)
	}

	q := db.New(conn)

	call, err := q.GetCallByPublicID(ctx, data.CallID)
	if err != nil {
		return fmt.Errorf("failed to load call %s: %w", data.CallID, err)
	}

	err = q.SetCallStatus(ctx, db.SetCallStatusParams{
		PublicID: call.PublicID,
		Status:   "transcribing",
	})
	if err != nil {
		return fmt.Errorf("failed to set call status: %w", err)
	}

	audio, err := storage.GetFile(ctx, s3Client, data.RecordingKey)
	if err != nil {
		return fmt.Errorf("failed to fetch recording %s: %w", data.RecordingKey, err)
	}

	transcription, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) (string, error) {
		return aiClient.GenerateAudioTranscription(ctx, audio, data.Language)
	})
	if err != nil {
		return fmt.Errorf("failed to transcribe recording: %w", err)
	}

	err = q.UpdateCallTranscription(ctx, db.UpdateCallTranscriptionParams{
		PublicID:      call.PublicID,
		Transcription: transcription,
		Status:        "transcribed",
	})
	if err != nil {
		return fmt.Errorf("failed to store transcription: %w", err)
	}

	// Embedding failures don't block analysis, similarity search just won't
	// find this call.
	embedding, err := aiClient.GenerateEmbedding(ctx, []byte(transcription))
	if err != nil {
		logger.Warn("[Transcribe] Failed to embed transcript", "call_id", call.PublicID, "err", err)
	} else {
		err = q.SetCallEmbedding(ctx, db.SetCallEmbeddingParams{
			PublicID:  call.PublicID,
			Embedding: pgvector.NewVector(embedding),
		})
		if err != nil {
			logger.Warn("[Transcribe] Failed to store embedding", "call_id", call.PublicID, "err", err)
		}
	}

	queueData := AnalyzeCallMsg{
		Message: "Call transcribed",
		CallID:  call.PublicID,
	}
	err = PublishFIFO(ch, AnalyzeQueue, []byte(util.ConvertStructToJson(queueData)))
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", AnalyzeQueue, err)
	}

	logger.Info("[Transcribe] Call transcribed", "call_id", call.PublicID, "chars", len(transcription))
	return nil
}
