package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"focusos/internal/ai"
	"focusos/internal/googleauth"
	"focusos/internal/logger"
	"focusos/internal/repository"
	"focusos/internal/service"
	"focusos/internal/vault"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError writes err as {"error": message} with the status its kind maps to.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	} else {
		log.Warnf("%s %s rejected (%d): %v", c.Request().Method, c.Path(), status, err)
	}
	return c.JSON(status, errorResponse{Error: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrActionNotConfirmed):
		return http.StatusBadRequest, "Action not confirmed"
	case errors.Is(err, service.ErrNoBlocksProvided):
		return http.StatusBadRequest, "No blocks provided"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, invalidInputMessage(err)
	case errors.Is(err, vault.ErrMalformedCiphertext):
		return http.StatusUnauthorized, "Stored Google credentials are unreadable, please reconnect your account"
	case errors.Is(err, googleauth.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "Google authorization expired, please reconnect your account"
	case errors.Is(err, googleauth.ErrNoLinkedAccount):
		return http.StatusForbidden, "No linked Google account"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, ai.ErrLLMOutputInvalid):
		return http.StatusBadGateway, "LLM output invalid"
	case errors.Is(err, service.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Upstream request timed out"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// invalidInputMessage returns the detail after the sentinel, capitalized.
func invalidInputMessage(err error) string {
	_, detail, found := strings.Cut(err.Error(), service.ErrInvalidInput.Error()+": ")
	if !found || detail == "" {
		return "Invalid input"
	}
	return strings.ToUpper(detail[:1]) + detail[1:]
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

// currentUserID returns the id placed in the context by the session middleware.
func currentUserID(c echo.Context) string {
	userID, _ := c.Get(UserIDContextKey).(string)
	return userID
}
