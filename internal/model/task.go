package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskSourceManual   = "manual"
	TaskSourceInferred = "inferred"

	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is a manually tracked unit of work that plan generation always carries forward.
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title" validate:"required"`
	Priority  string     `json:"priority" validate:"oneof=high medium low"`
	Status    string     `json:"status" validate:"oneof=todo in_progress done"`
	EstMins   int        `json:"estMins" validate:"oneof=15 30 45 60 90 120"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewTask(userID, title, priority string, estMins int) *Task {
	now := time.Now()
	return &Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Priority:  priority,
		Status:    TaskStatusTodo,
		EstMins:   estMins,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
