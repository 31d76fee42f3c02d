package router

import (
	"net/http"

	"focusos/internal/handler"
	"focusos/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sync     *handler.SyncHandler
	Agent    *handler.AgentHandler
	Calendar *handler.CalendarHandler
	Email    *handler.EmailHandler
	Learning *handler.LearningHandler
	Saved    *handler.SavedHandler
}

func SetupRoutes(e *echo.Echo, sessions *handler.SessionStore, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	e.GET("/auth/google", h.Auth.BeginAuthHandler)
	e.GET("/auth/google/callback", h.Auth.CallbackHandler)
	e.POST("/auth/logout", h.Auth.LogoutHandler)

	requireSession := middleware.RequireSession(sessions)

	e.GET("/auth/me", h.Auth.Me, requireSession)

	sync := e.Group("/sync", requireSession)
	sync.POST("/gmail", h.Sync.SyncGmail)
	sync.POST("/calendar", h.Sync.SyncCalendar)
	sync.POST("/docs", h.Sync.SyncDocs)
	sync.POST("/all", h.Sync.SyncAll)
	sync.GET("/events", h.Sync.Events)

	agent := e.Group("/agent", requireSession)
	agent.POST("/weekly-plan", h.Agent.WeeklyPlan)
	agent.POST("/triage-inbox", h.Agent.TriageInbox)
	agent.GET("/tasks", h.Agent.ListTasks)
	agent.POST("/tasks", h.Agent.AddTask)
	agent.GET("/plans", h.Agent.ListPlans)
	agent.GET("/triage-runs", h.Agent.ListTriageRuns)

	calendar := e.Group("/calendar", requireSession)
	calendar.POST("/create-study-blocks", h.Calendar.CreateStudyBlocks)
	calendar.PATCH("/event/:gcalId", h.Calendar.UpdateEvent)
	calendar.DELETE("/event/:gcalId", h.Calendar.DeleteEvent)

	email := e.Group("/email", requireSession)
	email.POST("/send", h.Email.Send)

	learning := e.Group("/learning", requireSession)
	learning.POST("/upload", h.Learning.Upload)
	learning.GET("/:id/summary", h.Learning.Summary)
	learning.GET("/:id/graph", h.Learning.Graph)
	learning.POST("/:id/graph", h.Learning.Graph)
	learning.GET("/:id/mcq", h.Learning.MCQ)
	learning.POST("/:id/mcq", h.Learning.MCQ)

	saved := e.Group("/save", requireSession)
	saved.POST("/plan", h.Saved.SavePlan)
	saved.GET("/plans", h.Saved.ListPlans)
	saved.POST("/summary", h.Saved.SaveSummary)
	saved.POST("/learning-session", h.Saved.SaveLearningSession)
	saved.GET("/learning-sessions", h.Saved.ListLearningSessions)
	saved.GET("/tasks", h.Saved.ListChecklist)
	saved.POST("/tasks", h.Saved.AddChecklistItem)
	saved.DELETE("/tasks", h.Saved.ClearChecklist)
	saved.PUT("/tasks/:taskId/toggle", h.Saved.ToggleChecklistItem)
	saved.GET("/calendar-activities", h.Saved.ListCalendarActivities)
	saved.POST("/calendar-activities", h.Saved.AddCalendarActivity)
}
