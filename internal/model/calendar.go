package model

import (
	"time"

	"github.com/google/uuid"
)

type CalendarEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	GcalID    string    `json:"gcalId"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location,omitempty"`
	RawJSON   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCalendarEvent(userID, gcalID, title string, start, end time.Time) *CalendarEvent {
	now := time.Now()
	return &CalendarEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		GcalID:    gcalID,
		Title:     title,
		Start:     start,
		End:       end,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Overlaps reports whether the event intersects the half-open interval [start, end).
func (e *CalendarEvent) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}
