package service

import (
	"context"
	"io"
	"time"

	"focusos/internal/model"
)

type AuthService interface {
	// Me returns the user and whether a Google account is linked.
	Me(ctx context.Context, userID string) (*model.User, bool, error)
}

type SyncService interface {
	SyncGmail(ctx context.Context, userID string, limit int) (*SyncResult[*model.EmailItem], error)
	SyncCalendar(ctx context.Context, userID string, days int) (*SyncResult[*model.CalendarEvent], error)
	SyncDocs(ctx context.Context, userID string, req SyncDocsRequest) (*SyncResult[*model.DocItem], error)
	SyncAll(ctx context.Context, userID string) (*SyncAllResult, error)
}

type AgentService interface {
	GenerateWeeklyPlan(ctx context.Context, userID string, weekStartDate string) (*model.WeeklyPlan, error)
	TriageInbox(ctx context.Context, userID string, limit int) ([]model.TriageResult, error)
	ListPlans(ctx context.Context, userID string) ([]*model.PlanRecord, error)
	ListTriageRuns(ctx context.Context, userID string) ([]*model.TriageRun, error)
	AddTask(ctx context.Context, userID string, req AddTaskRequest) (*model.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*model.Task, error)
}

type CalendarService interface {
	CreateStudyBlocks(ctx context.Context, userID string, blocks []model.StudyBlock, confirmed bool) (*CreateBlocksResult, error)
	UpdateEvent(ctx context.Context, userID, gcalID string, confirmed bool, updates EventPatch) (*RemoteEvent, error)
	DeleteEvent(ctx context.Context, userID, gcalID string, confirmed bool) error
}

type EmailService interface {
	Send(ctx context.Context, userID string, req SendEmailRequest) (string, error)
}

type LearningService interface {
	Upload(ctx context.Context, userID, filename string, content io.Reader) (*UploadResult, error)
	Summary(ctx context.Context, userID, materialID string) (*model.DocumentSummary, error)
	Graph(ctx context.Context, userID, materialID string) (*model.KnowledgeGraph, error)
	MCQ(ctx context.Context, userID, materialID string) ([]model.QuizQuestion, error)
}

type SavedService interface {
	SavePlan(ctx context.Context, userID string, req SavePlanRequest) (string, error)
	ListPlans(ctx context.Context, userID string) ([]*model.SavedPlan, error)
	SaveSummary(ctx context.Context, userID string, req SaveSummaryRequest) (string, error)
	SaveLearningSession(ctx context.Context, userID string, req SaveLearningSessionRequest) (string, error)
	ListLearningSessions(ctx context.Context, userID string) ([]*model.SavedLearningSession, error)
	ListChecklist(ctx context.Context, userID string) ([]*model.ChecklistItem, error)
	AddChecklistItem(ctx context.Context, userID string, req AddChecklistItemRequest) (*model.ChecklistItem, error)
	ClearChecklist(ctx context.Context, userID string) error
	ToggleChecklistItem(ctx context.Context, userID, id string) (*model.ChecklistItem, error)
	AddCalendarActivity(ctx context.Context, userID string, req AddCalendarActivityRequest) (*model.CalendarActivity, error)
	ListCalendarActivities(ctx context.Context, userID string) ([]*model.CalendarActivity, error)
}

// GmailClient interface for interacting with Gmail API
type GmailClient interface {
	ListUnread(ctx context.Context, maxResults int64) ([]MessageRef, error)
	GetMessage(ctx context.Context, id string) (*GmailMessage, error)
	// Send delivers an RFC 5322 message and returns the provider message id.
	Send(ctx context.Context, raw []byte) (string, error)
}

// CalendarClient operates on the user's primary calendar.
type CalendarClient interface {
	// ListEvents expands recurring events and follows every result page.
	ListEvents(ctx context.Context, from, to time.Time) ([]*RemoteEvent, error)
	InsertEvent(ctx context.Context, input EventInput) (*RemoteEvent, error)
	PatchEvent(ctx context.Context, eventID string, patch EventPatch) (*RemoteEvent, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type DriveClient interface {
	GetFile(ctx context.Context, fileID string) (*DriveFile, error)
	// ExportText exports a native Google document as plain text.
	ExportText(ctx context.Context, fileID string) (string, error)
}

// GoogleClients builds per-user API clients from freshly loaded credentials.
type GoogleClients interface {
	Gmail(ctx context.Context, userID string) (GmailClient, error)
	Calendar(ctx context.Context, userID string) (CalendarClient, error)
	Drive(ctx context.Context, userID string) (DriveClient, error)
}

// LLM returns the model's reply decoded and validated into out.
type LLM interface {
	Generate(ctx context.Context, prompt string, out interface{}) error
}

// TextExtractor turns uploaded bytes into plain text.
type TextExtractor interface {
	Extract(filename string, content []byte) (string, error)
}

type MessageRef struct {
	ID       string
	ThreadID string
}

type GmailMessage struct {
	ID           string
	ThreadID     string
	Subject      string
	From         string
	Snippet      string
	InternalDate int64
	RawJSON      string
}

type RemoteEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
	RawJSON     string    `json:"-"`
}

type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// EventTime follows the calendar API's dateTime wrapper.
type EventTime struct {
	DateTime string `json:"dateTime"`
}

// EventPatch carries only the fields the caller wants changed.
type EventPatch struct {
	Summary     *string    `json:"summary,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
}

type DriveFile struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime time.Time
	RawJSON      string
}

// ItemFailure reports one item that could not be processed in a batch.
type ItemFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type SyncResult[T any] struct {
	Items  []T           `json:"data"`
	Failed []ItemFailure `json:"failed,omitempty"`
}

type SyncAllResult struct {
	Gmail    int           `json:"gmail"`
	Calendar int           `json:"calendar"`
	Failed   []ItemFailure `json:"failed,omitempty"`
}

type SyncDocsRequest struct {
	DocID    string `json:"docId"`
	FolderID string `json:"folderId"`
}

type AddTaskRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	EstMins  int    `json:"estMins"`
	DueAt    string `json:"dueAt"`
}

type CreateBlocksResult struct {
	Created int                    `json:"created"`
	Events  []*model.CalendarEvent `json:"events"`
	Failed  []ItemFailure          `json:"failed,omitempty"`
}

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type UploadResult struct {
	MaterialID string                 `json:"materialId"`
	Summary    *model.DocumentSummary `json:"summary"`
}

type SavePlanRequest struct {
	WeekStartDate string      `json:"weekStartDate"`
	Plan          interface{} `json:"planJson"`
}

type SaveSummaryRequest struct {
	SourceFile  string `json:"sourceFile"`
	SummaryText string `json:"summaryText"`
}

type SaveLearningSessionRequest struct {
	Filename string      `json:"filename"`
	Summary  interface{} `json:"summary"`
	Graph    interface{} `json:"graph"`
	Quiz     interface{} `json:"quiz"`
}

type AddChecklistItemRequest struct {
	TaskID      string `json:"taskId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AddCalendarActivityRequest struct {
	EventID string `json:"eventId"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	End     string `json:"end"`
}
