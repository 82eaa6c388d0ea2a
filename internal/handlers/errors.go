package handlers

import (
	"net/http"
	"time"

	"github.com/PeterWalton01/userapi/internal/i18n"
	"github.com/PeterWalton01/userapi/services/logging"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIError carries an HTTP status and message-catalog keys; the actual text
// is resolved per request locale by the error handler.
type APIError struct {
	Status           int
	MessageKey       string
	ValidationErrors map[string]string
}

func (e *APIError) Error() string {
	return e.MessageKey
}

func newAPIError(status int, messageKey string) *APIError {
	return &APIError{Status: status, MessageKey: messageKey}
}

func newValidationError(validationErrors map[string]string) *APIError {
	return &APIError{
		Status:           http.StatusBadRequest,
		MessageKey:       "validation_failure",
		ValidationErrors: validationErrors,
	}
}

type errorBody struct {
	Message          string            `json:"message"`
	Timestamp        int64             `json:"timestamp"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// ErrorHandler renders every error as {message, timestamp, path} with the
// message translated to the request locale. Forbidden and validation errors
// are expected control flow and are not logged as application errors.
func ErrorHandler(bundle *i18n.Bundle, logger *logging.Service) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		locale := bundle.Locale(c.Request().Header.Get("Accept-Language"))

		status := http.StatusInternalServerError
		messageKey := "internal_server_error"
		var validationErrors map[string]string

		switch e := err.(type) {
		case *APIError:
			status = e.Status
			messageKey = e.MessageKey
			if len(e.ValidationErrors) > 0 {
				validationErrors = make(map[string]string, len(e.ValidationErrors))
				for field, key := range e.ValidationErrors {
					validationErrors[field] = bundle.T(locale, key)
				}
			}
		case *echo.HTTPError:
			status = e.Code
			if msg, ok := e.Message.(string); ok {
				messageKey = msg
			}
		default:
			logger.Error("request failed",
				zap.Error(err),
				zap.String("path", c.Request().URL.Path))
		}

		body := errorBody{
			Message:          bundle.T(locale, messageKey),
			Timestamp:        time.Now().UnixMilli(),
			Path:             c.Request().URL.Path,
			ValidationErrors: validationErrors,
		}

		if writeErr := c.JSON(status, body); writeErr != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
