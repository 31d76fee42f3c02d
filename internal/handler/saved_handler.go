package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/service"
)

// SavedHandler serves the /save routes backed by the secondary document store.
type SavedHandler struct {
	savedService service.SavedService
	logger       *logger.Logger
}

func NewSavedHandler(savedService service.SavedService, logger *logger.Logger) *SavedHandler {
	return &SavedHandler{
		savedService: savedService,
		logger:       logger,
	}
}

func savedID(c echo.Context, id string) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func (h *SavedHandler) SavePlan(c echo.Context) error {
	var req service.SavePlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id, err := h.savedService.SavePlan(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return savedID(c, id)
}

func (h *SavedHandler) ListPlans(c echo.Context) error {
	plans, err := h.savedService.ListPlans(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if plans == nil {
		plans = []*model.SavedPlan{}
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *SavedHandler) SaveSummary(c echo.Context) error {
	var req service.SaveSummaryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id, err := h.savedService.SaveSummary(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return savedID(c, id)
}

func (h *SavedHandler) SaveLearningSession(c echo.Context) error {
	var req service.SaveLearningSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id, err := h.savedService.SaveLearningSession(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return savedID(c, id)
}

func (h *SavedHandler) ListLearningSessions(c echo.Context) error {
	sessions, err := h.savedService.ListLearningSessions(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if sessions == nil {
		sessions = []*model.SavedLearningSession{}
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *SavedHandler) ListChecklist(c echo.Context) error {
	items, err := h.savedService.ListChecklist(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if items == nil {
		items = []*model.ChecklistItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SavedHandler) AddChecklistItem(c echo.Context) error {
	var req service.AddChecklistItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	item, err := h.savedService.AddChecklistItem(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *SavedHandler) ClearChecklist(c echo.Context) error {
	if err := h.savedService.ClearChecklist(c.Request().Context(), currentUserID(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *SavedHandler) ToggleChecklistItem(c echo.Context) error {
	item, err := h.savedService.ToggleChecklistItem(c.Request().Context(), currentUserID(c), c.Param("taskId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *SavedHandler) ListCalendarActivities(c echo.Context) error {
	activities, err := h.savedService.ListCalendarActivities(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if activities == nil {
		activities = []*model.CalendarActivity{}
	}
	return c.JSON(http.StatusOK, activities)
}

func (h *SavedHandler) AddCalendarActivity(c echo.Context) error {
	var req service.AddCalendarActivityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	activity, err := h.savedService.AddCalendarActivity(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, activity)
}
