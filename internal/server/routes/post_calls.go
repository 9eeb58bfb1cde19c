package routes

import (
	"net/http"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/queue"
	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/internal/storage"
	"github.com/vigia-labs/vigia/internal/util"
	"github.com/vigia-labs/vigia/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateCallHandler ingests a monitored call from multipart/form-data: the
// call metadata plus either a recording file or an already-transcribed text.
func CreateCallHandler(c echo.Context) error {
	type createCallBody struct {
		Pin           string `form:"pin" validate:"required"`
		Source        string `form:"source" validate:"required"`
		Destination   string `form:"destination" validate:"required"`
		Language      string `form:"language"`
		Transcription string `form:"transcription"`
	}

	type createCallResponse struct {
		Message string   `json:"message"`
		Call    *db.Call `json:"call,omitempty"`
	}

	data := new(createCallBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createCallResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createCallResponse{
			Message: "Invalid request body",
		})
	}

	recording, recordingErr := c.FormFile("recording")
	if recordingErr != nil && data.Transcription == "" {
		return c.JSON(http.StatusBadRequest, createCallResponse{
			Message: "Provide a recording file or a transcription",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	callID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createCallResponse{
			Message: "Internal server error",
		})
	}

	var recordingKey *string
	if recordingErr == nil {
		src, err := recording.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, createCallResponse{
				Message: "Could not open recording",
			})
		}
		defer src.Close()

		key, err := storage.PutFile(
			ctx,
			app.S3,
			"recordings",
			recording.Filename,
			callID,
			src,
		)
		if err != nil {
			logger.Error("Failed to upload recording", "err", err)
			return c.JSON(http.StatusInternalServerError, createCallResponse{
				Message: "Internal server error",
			})
		}
		recordingKey = &key
	}

	var language *string
	if data.Language != "" {
		language = &data.Language
	}
	var transcription *string
	status := "pending"
	if data.Transcription != "" {
		transcription = &data.Transcription
		status = "transcribed"
	}

	q := db.New(app.DBConn)
	call, err := q.CreateCall(ctx, db.CreateCallParams{
		PublicID:      callID,
		Pin:           data.Pin,
		Source:        data.Source,
		Destination:   data.Destination,
		Language:      language,
		RecordingKey:  recordingKey,
		Transcription: transcription,
		Status:        status,
	})
	if err != nil {
		logger.Error("Failed to create call", "err", err)
		return c.JSON(http.StatusInternalServerError, createCallResponse{
			Message: "Internal server error",
		})
	}

	// Calls with a recording go through transcription first; calls ingested
	// with a transcript skip straight to analysis.
	if recordingKey != nil {
		queueData := queue.TranscribeCallMsg{
			Message:      "Call ingested",
			CallID:       call.PublicID,
			RecordingKey: *recordingKey,
			Language:     data.Language,
		}
		err = queue.PublishFIFO(app.Queue, queue.TranscribeQueue, []byte(util.ConvertStructToJson(queueData)))
	} else {
		queueData := queue.AnalyzeCallMsg{
			Message: "Call ingested",
			CallID:  call.PublicID,
		}
		err = queue.PublishFIFO(app.Queue, queue.AnalyzeQueue, []byte(util.ConvertStructToJson(queueData)))
	}
	if err != nil {
		logger.Error("Failed to publish call", "call_id", call.PublicID, "err", err)
	}

	return c.JSON(http.StatusOK, createCallResponse{
		Message: "Call ingested successfully",
		Call:    &call,
	})
}
