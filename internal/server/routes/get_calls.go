package routes

import (
	"net/http"

	"github.com/vigia-labs/vigia/internal/db"
	"github.com/vigia-labs/vigia/internal/server/middleware"
	"github.com/vigia-labs/vigia/internal/storage"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetCallsHandler(c echo.Context) error {
	type getCallsParams struct {
		Pin    string `query:"pin"`
		Limit  int32  `query:"limit"`
		Offset int32  `query:"offset"`
	}

	params := new(getCallsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	calls, err := q.ListCalls(ctx, db.ListCallsParams{
		Pin:    params.Pin,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, calls)
}

func GetCallHandler(c echo.Context) error {
	type getCallParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getCallResponse struct {
		Message      string   `json:"message"`
		Call         *db.Call `json:"call,omitempty"`
		RecordingURL string   `json:"recording_url,omitempty"`
	}

	params := new(getCallParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getCallResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getCallResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	call, err := q.GetCallByPublicID(ctx, params.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, getCallResponse{
			Message: "Call not found",
		})
	}

	resp := getCallResponse{
		Message: "Call found",
		Call:    &call,
	}
	if call.RecordingKey != nil {
		url, err := storage.GenerateDownloadLink(ctx, app.S3, *call.RecordingKey)
		if err == nil {
			resp.RecordingURL = url
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func GetSimilarCallsHandler(c echo.Context) error {
	type getSimilarParams struct {
		ID    string `param:"id" validate:"required"`
		Limit int32  `query:"limit"`
	}

	type getSimilarResponse struct {
		Message string           `json:"message"`
		Calls   []db.SimilarCall `json:"calls,omitempty"`
	}

	params := new(getSimilarParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSimilarResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSimilarResponse{
			Message: "Invalid request params",
		})
	}
	if params.Limit <= 0 || params.Limit > 50 {
		params.Limit = 10
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	if _, err := q.GetCallByPublicID(ctx, params.ID); err != nil {
		return c.JSON(http.StatusNotFound, getSimilarResponse{
			Message: "Call not found",
		})
	}

	similar, err := q.FindSimilarCalls(ctx, db.FindSimilarCallsParams{
		PublicID: params.ID,
		Limit:    params.Limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getSimilarResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getSimilarResponse{
		Message: "Similar calls found",
		Calls:   similar,
	})
}
