package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes backend 4xx answers through with the backend message.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields}
	}

	// Known domain errors → deterministic HTTP codes. Upload failures are
	// matched before backend errors since they may wrap one.
	switch {
	case errors.Is(err, domain.ErrInFlight):
		return http.StatusConflict, errorResponse{Error: "request already in progress"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated"}
	case errors.Is(err, domain.ErrNoRefreshToken):
		return http.StatusUnauthorized, errorResponse{Error: "No refresh token found"}
	case errors.Is(err, domain.ErrNoticeNotFound):
		return http.StatusNotFound, errorResponse{Error: "notice not found"}
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, errorResponse{Error: "file not found"}
	case errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"attachment": "Only JPG, PNG or PDF files are allowed"},
		}
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, errorResponse{
			Error:  "attachment too large",
			Fields: map[string]string{"attachment": "File is too large"},
		}
	case errors.Is(err, domain.ErrUploadFailed):
		log.Warn().Ctx(c.Request().Context()).Err(err).Str("path", c.Path()).Msg("attachment upload failed")
		return http.StatusBadGateway, errorResponse{Error: "Attachment upload failed"}
	case errors.Is(err, domain.ErrStorageUnavailable):
		log.Error().Ctx(c.Request().Context()).Err(err).Msg("attachment storage unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "attachment storage unavailable"}
	}

	var be *domain.BackendError
	if errors.As(err, &be) {
		if be.Status >= 400 && be.Status < 500 {
			return be.Status, errorResponse{Error: be.UserMessage()}
		}
		// Transport failures and backend 5xx look the same to the user.
		log.Warn().Ctx(c.Request().Context()).
			Err(err).
			Int("backend_status", be.Status).
			Str("path", c.Path()).
			Msg("backend failure")
		return http.StatusBadGateway, errorResponse{Error: domain.GenericFailureMessage}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Ctx(c.Request().Context()).
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
