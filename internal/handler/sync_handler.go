package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"focusos/internal/logger"
	"focusos/internal/service"
)

const heartbeatInterval = 30 * time.Second

// EventStreams publishes and subscribes to per-user live events.
type EventStreams interface {
	Subscribe(userID string) (<-chan []byte, func())
	Publish(userID, eventType string, data interface{})
}

type SyncHandler struct {
	syncService service.SyncService
	streams     EventStreams
	logger      *logger.Logger
}

func NewSyncHandler(syncService service.SyncService, streams EventStreams, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		streams:     streams,
		logger:      logger,
	}
}

type syncResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Data    interface{}           `json:"data"`
	Failed  []service.ItemFailure `json:"failed,omitempty"`
}

func (h *SyncHandler) SyncGmail(c echo.Context) error {
	result, err := h.syncService.SyncGmail(c.Request().Context(), currentUserID(c), queryInt(c, "limit"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, syncResponse{Success: true, Count: len(result.Items), Data: result.Items, Failed: result.Failed})
}

func (h *SyncHandler) SyncCalendar(c echo.Context) error {
	result, err := h.syncService.SyncCalendar(c.Request().Context(), currentUserID(c), queryInt(c, "days"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, syncResponse{Success: true, Count: len(result.Items), Data: result.Items, Failed: result.Failed})
}

func (h *SyncHandler) SyncDocs(c echo.Context) error {
	var req service.SyncDocsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.syncService.SyncDocs(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, syncResponse{Success: true, Count: len(result.Items), Data: result.Items, Failed: result.Failed})
}

func (h *SyncHandler) SyncAll(c echo.Context) error {
	userID := currentUserID(c)
	result, err := h.syncService.SyncAll(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	h.streams.Publish(userID, "sync_completed", result)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"gmail":    result.Gmail,
		"calendar": result.Calendar,
		"failed":   result.Failed,
	})
}

// Events streams live sync notifications as server-sent events.
func (h *SyncHandler) Events(c echo.Context) error {
	userID := currentUserID(c)
	stream, release := h.streams.Subscribe(userID)
	defer release()

	res := c.Response()
	res.Header().Set("Content-Type", "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	fmt.Fprintf(res, "data: {\"type\":\"connection\",\"data\":{\"userId\":%q}}\n\n", userID)
	res.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case payload, ok := <-stream:
			if !ok {
				return nil
			}
			fmt.Fprintf(res, "data: %s\n\n", payload)
			res.Flush()
		case <-heartbeat.C:
			fmt.Fprint(res, ": ping\n\n")
			res.Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// queryInt reads a positive integer query parameter, or 0 when absent or invalid.
func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
