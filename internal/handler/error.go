// Package handler exposes the application over JSON HTTP endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EFAILURE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorDetail struct {
	Code    string            `json:"code"`
	Reason  string            `json:"reason,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// badRequest reports an undecodable request body.
func badRequest(c echo.Context, log *slog.Logger, err error) error {
	log.Debug("request body rejected", "path", c.Path(), "error", err)
	return respondError(c, log, domain.Invalid("http.decode", "Request.MalformedBody", "The request body could not be decoded."))
}

// respondError writes a domain error as a JSON error body. Internal errors
// are logged with full detail and surfaced with a generic message.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	code := domain.ErrorCode(err)
	if code == domain.EINTERNAL || code == domain.EFAILURE {
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
	}

	return c.JSON(ErrorCodeToHTTPStatus(code), errorBody{Error: errorDetail{
		Code:    code,
		Reason:  domain.ErrorReason(err),
		Message: domain.ErrorMessage(err),
		Fields:  domain.GetValidationFields(err),
	}})
}
