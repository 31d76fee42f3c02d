package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
	"focusos/internal/service"
)

// AuthFlow runs the Google authorization-code flow.
type AuthFlow interface {
	AuthURL(state string) (string, error)
	CompleteAuthorization(ctx context.Context, code string) (*model.User, error)
}

type AuthHandler struct {
	flow        AuthFlow
	authService service.AuthService
	sessions    *SessionStore
	appBaseURL  string
	logger      *logger.Logger
}

func NewAuthHandler(flow AuthFlow, authService service.AuthService, sessions *SessionStore, appBaseURL string, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		flow:        flow,
		authService: authService,
		sessions:    sessions,
		appBaseURL:  strings.TrimRight(appBaseURL, "/"),
		logger:      logger,
	}
}

// BeginAuthHandler initiates the OAuth flow
func (h *AuthHandler) BeginAuthHandler(c echo.Context) error {
	state := uuid.New().String()
	if err := h.sessions.SetState(c.Response(), c.Request(), state); err != nil {
		return respondError(c, h.logger, err)
	}

	url, err := h.flow.AuthURL(state)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// CallbackHandler handles the OAuth callback
func (h *AuthHandler) CallbackHandler(c echo.Context) error {
	req := c.Request()

	expected, err := h.sessions.TakeState(c.Response(), req)
	if err != nil || c.QueryParam("state") != expected {
		h.logger.Warnf("OAuth callback with missing or mismatched state")
		return h.authFailed(c)
	}
	if reason := c.QueryParam("error"); reason != "" {
		h.logger.Warnf("OAuth consent declined: %s", reason)
		return h.authFailed(c)
	}
	code := c.QueryParam("code")
	if code == "" {
		return h.authFailed(c)
	}

	user, err := h.flow.CompleteAuthorization(req.Context(), code)
	if err != nil {
		h.logger.Errorf("Failed to complete Google authorization: %v", err)
		return h.authFailed(c)
	}

	if err := h.sessions.SetUserID(c.Response(), req, user.ID); err != nil {
		h.logger.Errorf("Failed to save session: %v", err)
		return h.authFailed(c)
	}

	return c.Redirect(http.StatusTemporaryRedirect, h.appBaseURL+"/")
}

func (h *AuthHandler) authFailed(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, h.appBaseURL+"/login?error=auth_failed")
}

// LogoutHandler logs out the user
func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	if err := h.sessions.Clear(c.Response(), c.Request()); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

// Me returns the signed-in user and whether Google is linked.
func (h *AuthHandler) Me(c echo.Context) error {
	user, connected, err := h.authService.Me(c.Request().Context(), currentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":        user,
		"isConnected": connected,
	})
}
