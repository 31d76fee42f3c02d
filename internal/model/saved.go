package model

import (
	"time"

	"github.com/google/uuid"
)

// Documents kept in the secondary store behind /save. Ids are generated here so the
// Mongo and in-memory stores behave the same.

type SavedPlan struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        string    `json:"userId" bson:"userId"`
	WeekStartDate time.Time `json:"weekStartDate" bson:"weekStartDate"`
	PlanJSON      string    `json:"planJson" bson:"planJson"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

func NewSavedPlan(userID string, weekStart time.Time, planJSON string) *SavedPlan {
	return &SavedPlan{
		ID:            uuid.New().String(),
		UserID:        userID,
		WeekStartDate: weekStart,
		PlanJSON:      planJSON,
		CreatedAt:     time.Now(),
	}
}

type SavedSummary struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	SourceFile  string    `json:"sourceFile" bson:"sourceFile"`
	SummaryText string    `json:"summaryText" bson:"summaryText"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

func NewSavedSummary(userID, sourceFile, summaryText string) *SavedSummary {
	return &SavedSummary{
		ID:          uuid.New().String(),
		UserID:      userID,
		SourceFile:  sourceFile,
		SummaryText: summaryText,
		CreatedAt:   time.Now(),
	}
}

type SavedLearningSession struct {
	ID       string      `json:"id" bson:"_id"`
	UserID   string      `json:"userId" bson:"userId"`
	Filename string      `json:"filename" bson:"filename"`
	Summary  interface{} `json:"summary,omitempty" bson:"summary,omitempty"`
	Graph    interface{} `json:"graph,omitempty" bson:"graph,omitempty"`
	Quiz     interface{} `json:"quiz,omitempty" bson:"quiz,omitempty"`
	SavedAt  time.Time   `json:"savedAt" bson:"savedAt"`
}

func NewSavedLearningSession(userID, filename string, summary, graph, quiz interface{}) *SavedLearningSession {
	return &SavedLearningSession{
		ID:       uuid.New().String(),
		UserID:   userID,
		Filename: filename,
		Summary:  summary,
		Graph:    graph,
		Quiz:     quiz,
		SavedAt:  time.Now(),
	}
}

// ChecklistItem is a user-facing tracking entry. TaskID is chosen by the client.
type ChecklistItem struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"userId"`
	TaskID      string     `json:"taskId" bson:"taskId"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Completed   bool       `json:"completed" bson:"completed"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

func NewChecklistItem(userID, taskID, title, description string) *ChecklistItem {
	if taskID == "" {
		taskID = uuid.New().String()
	}
	return &ChecklistItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		TaskID:      taskID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Toggle flips completion and stamps or clears CompletedAt.
func (i *ChecklistItem) Toggle(now time.Time) {
	i.Completed = !i.Completed
	if i.Completed {
		i.CompletedAt = &now
	} else {
		i.CompletedAt = nil
	}
}

// CalendarActivityTTL is how long an added calendar activity stays listed.
const CalendarActivityTTL = 24 * time.Hour

type CalendarActivity struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          string    `json:"userId" bson:"userId"`
	EventID         string    `json:"eventId" bson:"eventId"`
	Title           string    `json:"title" bson:"title"`
	Start           time.Time `json:"start" bson:"start"`
	End             time.Time `json:"end" bson:"end"`
	AddedToCalendar bool      `json:"addedToCalendar" bson:"addedToCalendar"`
	AddedAt         time.Time `json:"addedAt" bson:"addedAt"`
	ExpiresAt       time.Time `json:"expiresAt" bson:"expiresAt"`
}

func NewCalendarActivity(userID, eventID, title string, start, end, now time.Time) *CalendarActivity {
	return &CalendarActivity{
		ID:              uuid.New().String(),
		UserID:          userID,
		EventID:         eventID,
		Title:           title,
		Start:           start,
		End:             end,
		AddedToCalendar: true,
		AddedAt:         now,
		ExpiresAt:       now.Add(CalendarActivityTTL),
	}
}
