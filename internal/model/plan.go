package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanTask is a task as it appears inside a generated weekly plan.
type PlanTask struct {
	Title      string `json:"title" validate:"required"`
	SourceType string `json:"sourceType" validate:"oneof=manual inferred"`
	Priority   string `json:"priority" validate:"oneof=high medium low"`
	Status     string `json:"status" validate:"oneof=todo in_progress done"`
	EstMins    int    `json:"estMins" validate:"oneof=15 30 45 60 90 120"`
}

// StudyBlock is a proposed focus slot. Start and End are kept as the timestamps the
// model produced so that the persisted plan is the validated reply itself.
type StudyBlock struct {
	Title       string `json:"title" validate:"required"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Interval parses the block's start and end.
func (b StudyBlock) Interval() (time.Time, time.Time, error) {
	start, err := ParseTimestamp(b.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q: %w", b.Start, err)
	}
	end, err := ParseTimestamp(b.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q: %w", b.End, err)
	}
	return start, end, nil
}

type WeeklyPlan struct {
	WeekStartDate string       `json:"weekStartDate" validate:"required"`
	Tasks         []PlanTask   `json:"tasks" validate:"required,dive"`
	StudyBlocks   []StudyBlock `json:"studyBlocks" validate:"required,dive"`
}

// PlanRecord is a persisted weekly plan. PlanJSON is never rewritten.
type PlanRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	WeekStartDate time.Time `json:"weekStartDate"`
	PlanJSON      string    `json:"planJson"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewPlanRecord(userID string, weekStart time.Time, planJSON string) *PlanRecord {
	return &PlanRecord{
		ID:            uuid.New().String(),
		UserID:        userID,
		WeekStartDate: weekStart,
		PlanJSON:      planJSON,
		CreatedAt:     time.Now(),
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and the zone-less ISO forms models tend to emit.
// Zone-less values are read as local time.
func ParseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
