package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/service"
)

type AgentHandler struct {
	agentService service.AgentService
	logger       *logger.Logger
}

func NewAgentHandler(agentService service.AgentService, logger *logger.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		logger:       logger,
	}
}

func (h *AgentHandler) WeeklyPlan(c echo.Context) error {
	var req struct {
		WeekStartDate string `json:"weekStartDate"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.agentService.GenerateWeeklyPlan(c.Request().Context(), currentUserID(c), req.WeekStartDate)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *AgentHandler) TriageInbox(c echo.Context) error {
	var req struct {
		Limit int `json:"limit"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	results, err := h.agentService.TriageInbox(c.Request().Context(), currentUserID(c), req.Limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (h *AgentHandler) ListTasks(c echo.Context) error {
	tasks, err := h.agentService.ListTasks(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *AgentHandler) AddTask(c echo.Context) error {
	var req service.AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.agentService.AddTask(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *AgentHandler) ListPlans(c echo.Context) error {
	plans, err := h.agentService.ListPlans(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if plans == nil {
		plans = []*model.PlanRecord{}
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *AgentHandler) ListTriageRuns(c echo.Context) error {
	runs, err := h.agentService.ListTriageRuns(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if runs == nil {
		runs = []*model.TriageRun{}
	}
	return c.JSON(http.StatusOK, runs)
}
