package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/logging"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler. It maps service errors to status
// codes and writes the common error body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logging.FromContext(c.Request().Context()).Error().Err(writeErr).Msg("failed to write error response")
	}
}

func errorResponse(err error) (int, *common.ErrorResponse) {
	var validation *apperrors.ValidationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, common.CreateErrorResponse("validation_failed", "The given data was invalid.", validation.Fields)
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity, common.CreateErrorResponse("validation_failed", err.Error(), nil)
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, common.CreateErrorResponse("not_found", err.Error(), nil)
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, common.CreateErrorResponse("forbidden", err.Error(), nil)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, common.CreateErrorResponse("unauthorized", err.Error(), nil)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, common.CreateErrorResponse("conflict", err.Error(), nil)
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, common.CreateErrorResponse("bad_request", err.Error(), nil)
	case errors.As(err, &httpErr):
		return httpErr.Code, common.CreateErrorResponse(statusCode(httpErr.Code), fmt.Sprint(httpErr.Message), nil)
	default:
		return http.StatusInternalServerError, common.CreateErrorResponse("internal_error", "Internal server error", nil)
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "error"
}
