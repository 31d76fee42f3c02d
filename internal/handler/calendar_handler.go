package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/service"
)

type CalendarHandler struct {
	calendarService service.CalendarService
	logger          *logger.Logger
}

func NewCalendarHandler(calendarService service.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

func (h *CalendarHandler) CreateStudyBlocks(c echo.Context) error {
	var req struct {
		Blocks    []model.StudyBlock `json:"blocks"`
		Confirmed bool               `json:"confirmed"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.calendarService.CreateStudyBlocks(c.Request().Context(), currentUserID(c), req.Blocks, req.Confirmed)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"created": result.Created,
		"events":  result.Events,
		"failed":  result.Failed,
	})
}

func (h *CalendarHandler) UpdateEvent(c echo.Context) error {
	var req struct {
		Confirmed bool               `json:"confirmed"`
		Updates   service.EventPatch `json:"updates"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	event, err := h.calendarService.UpdateEvent(c.Request().Context(), currentUserID(c), c.Param("gcalId"), req.Confirmed, req.Updates)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

// DeleteEvent reads the confirmation from the request body.
func (h *CalendarHandler) DeleteEvent(c echo.Context) error {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.calendarService.DeleteEvent(c.Request().Context(), currentUserID(c), c.Param("gcalId"), req.Confirmed); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
