package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/middleware"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNoSlotAvailable, http.StatusConflict, "no_slot_available"},
	{domain.ErrSlotIncompatible, http.StatusConflict, "slot_incompatible"},
	{domain.ErrInvalidSelection, http.StatusConflict, "invalid_selection"},
	{domain.ErrInvalidPhaseTransition, http.StatusConflict, "invalid_phase_transition"},
	{domain.ErrBattleNotActive, http.StatusConflict, "battle_not_active"},
	{domain.ErrTemplateNotFound, http.StatusNotFound, "template_not_found"},
	{domain.ErrMatchNotFound, http.StatusNotFound, "match_not_found"},
}

// setupErrorHandling installs the handler that turns domain errors into
// JSON responses. Anything unrecognized is logged with a stack trace and
// answered with a 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logger := middleware.FromContext(c.Request().Context())
		for _, m := range errorMappings {
			if errors.Is(err, m.err) {
				logger.Info("Request rejected", "status", m.status, "error", err)
				writeError(c, m.status, ErrorResponse{Code: m.code, Message: err.Error()})
				return
			}
		}

		logger.Error("Internal Server Error (Unhandled)",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"stack_trace", string(debug.Stack()))
		writeError(c, http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "internal server error"})
	}
}

func writeError(c echo.Context, status int, body ErrorResponse) {
	if err := c.JSON(status, body); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to write error response", "error", err)
	}
}
