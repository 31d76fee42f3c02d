package repository

import (
	"context"
	"errors"
	"time"

	"focusos/internal/model"
)

var (
	// ErrNotFound is returned by every Find* method when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// GoogleAccountRepository stores at most one linked account per user.
type GoogleAccountRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.GoogleAccount, error)
	// Upsert inserts the account or replaces the existing row for the same user.
	Upsert(ctx context.Context, account *model.GoogleAccount) error
}

type EmailRepository interface {
	Create(ctx context.Context, email *model.EmailItem) error
	FindByGmailID(ctx context.Context, gmailID string) (*model.EmailItem, error)
	// FindUnreadSince returns unread items received at or after since, newest first.
	FindUnreadSince(ctx context.Context, userID string, since time.Time, limit int) ([]*model.EmailItem, error)
	Update(ctx context.Context, email *model.EmailItem) error
}

type CalendarEventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	FindByGcalID(ctx context.Context, gcalID string) (*model.CalendarEvent, error)
	// FindInRange returns events overlapping [from, to), ordered by start.
	FindInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error)
	Update(ctx context.Context, event *model.CalendarEvent) error
	DeleteByGcalID(ctx context.Context, gcalID string) error
}

type DocRepository interface {
	Create(ctx context.Context, doc *model.DocItem) error
	FindByFileID(ctx context.Context, fileID string) (*model.DocItem, error)
	Update(ctx context.Context, doc *model.DocItem) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByStatus(ctx context.Context, userID, status string) ([]*model.Task, error)
}

type PlanRepository interface {
	Create(ctx context.Context, plan *model.PlanRecord) error
	FindByUserID(ctx context.Context, userID string) ([]*model.PlanRecord, error)
}

type TriageRunRepository interface {
	Create(ctx context.Context, run *model.TriageRun) error
	FindByUserID(ctx context.Context, userID string) ([]*model.TriageRun, error)
}

type LearningMaterialRepository interface {
	Create(ctx context.Context, material *model.LearningMaterial) error
	FindByID(ctx context.Context, id string) (*model.LearningMaterial, error)
}

type LearningArtifactRepository interface {
	Create(ctx context.Context, artifact *model.LearningArtifact) error
	// FindLatest returns the newest artifact of the given type for a material.
	FindLatest(ctx context.Context, materialID, artifactType string) (*model.LearningArtifact, error)
}

// SavedStore is the secondary document store behind the /save routes.
type SavedStore interface {
	SavePlan(ctx context.Context, plan *model.SavedPlan) error
	ListPlans(ctx context.Context, userID string) ([]*model.SavedPlan, error)
	SaveSummary(ctx context.Context, summary *model.SavedSummary) error
	SaveLearningSession(ctx context.Context, session *model.SavedLearningSession) error
	ListLearningSessions(ctx context.Context, userID string) ([]*model.SavedLearningSession, error)

	ListChecklist(ctx context.Context, userID string) ([]*model.ChecklistItem, error)
	AddChecklistItem(ctx context.Context, item *model.ChecklistItem) error
	ClearChecklist(ctx context.Context, userID string) error
	// FindChecklistItem matches either the record id or the client task id.
	FindChecklistItem(ctx context.Context, userID, id string) (*model.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error

	AddCalendarActivity(ctx context.Context, activity *model.CalendarActivity) error
	ListActiveCalendarActivities(ctx context.Context, userID string, now time.Time) ([]*model.CalendarActivity, error)
}

// Repositories groups the relational store.
type Repositories struct {
	Users     UserRepository
	Accounts  GoogleAccountRepository
	Emails    EmailRepository
	Events    CalendarEventRepository
	Docs      DocRepository
	Tasks     TaskRepository
	Plans     PlanRepository
	Triage    TriageRunRepository
	Materials LearningMaterialRepository
	Artifacts LearningArtifactRepository
}
