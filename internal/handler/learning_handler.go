package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/repository"
	"focusos/internal/service"
)

type LearningHandler struct {
	learningService service.LearningService
	logger          *logger.Logger
}

func NewLearningHandler(learningService service.LearningService, logger *logger.Logger) *LearningHandler {
	return &LearningHandler{
		learningService: learningService,
		logger:          logger,
	}
}

// Upload accepts a multipart "file" field, extracts its text and summarizes it.
func (h *LearningHandler) Upload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	file, err := header.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer file.Close()

	result, err := h.learningService.Upload(c.Request().Context(), currentUserID(c), header.Filename, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "File processed",
		"materialId": result.MaterialID,
		"summary":    result.Summary,
	})
}

func (h *LearningHandler) Summary(c echo.Context) error {
	summary, err := h.learningService.Summary(c.Request().Context(), currentUserID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "No summary found"})
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *LearningHandler) Graph(c echo.Context) error {
	graph, err := h.learningService.Graph(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return h.artifactError(c, err)
	}
	return c.JSON(http.StatusOK, graph)
}

func (h *LearningHandler) MCQ(c echo.Context) error {
	quiz, err := h.learningService.MCQ(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return h.artifactError(c, err)
	}
	return c.JSON(http.StatusOK, quiz)
}

func (h *LearningHandler) artifactError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Material not found"})
	}
	return respondError(c, h.logger, err)
}
