package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/service"
)

type EmailHandler struct {
	emailService service.EmailService
	logger       *logger.Logger
}

func NewEmailHandler(emailService service.EmailService, logger *logger.Logger) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		logger:       logger,
	}
}

func (h *EmailHandler) Send(c echo.Context) error {
	var req service.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := h.emailService.Send(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": id,
	})
}
