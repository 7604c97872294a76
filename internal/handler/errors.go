package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping binds an error (matched with errors.Is) to a status code.
// An empty Message surfaces the error's own text.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps service errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

// NewErrorMapper creates a mapper with only the default 500 response.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// DefaultErrorMapper knows every service error kind.
func DefaultErrorMapper() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(service.ErrInvalidInput, http.StatusBadRequest, "").
		WithMapping(service.ErrPolicyViolation, http.StatusBadRequest, "").
		WithMapping(service.ErrNotFound, http.StatusNotFound, "").
		WithMapping(service.ErrConflict, http.StatusConflict, "")
}

// WithMapping adds an error mapping to the mapper.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{Error: err, Status: status, Message: message})
	return m
}

// WithDefault sets the default status and message for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			msg := mapping.Message
			if msg == "" {
				msg = err.Error()
			}
			return HTTPErrorInfo{Status: mapping.Status, Message: msg}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}

// respondError writes {"error": msg}.  Anything that maps to a 5xx is
// logged with the request path since the client only sees a generic text.
func respondError(c echo.Context, m *ErrorMapper, logger *slog.Logger, err error) error {
	info := m.Map(err)
	if info.Status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}
	return c.JSON(info.Status, echo.Map{"error": info.Message})
}
