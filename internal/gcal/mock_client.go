package gcal

import (
	"context"
	"time"

	"focusos/internal/service"
)

// MockCalendarClient is a mock implementation of CalendarClient for testing
type MockCalendarClient struct {
	ListEventsFunc  func(ctx context.Context, from, to time.Time) ([]*service.RemoteEvent, error)
	InsertEventFunc func(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error)
	PatchEventFunc  func(ctx context.Context, eventID string, patch service.EventPatch) (*service.RemoteEvent, error)
	DeleteEventFunc func(ctx context.Context, eventID string) error
}

func NewMockCalendarClient() *MockCalendarClient {
	return &MockCalendarClient{}
}

func (m *MockCalendarClient) ListEvents(ctx context.Context, from, to time.Time) ([]*service.RemoteEvent, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx, from, to)
	}
	return []*service.RemoteEvent{}, nil
}

func (m *MockCalendarClient) InsertEvent(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error) {
	if m.InsertEventFunc != nil {
		return m.InsertEventFunc(ctx, input)
	}
	return &service.RemoteEvent{
		ID:          "evt-" + input.Start.Format("150405"),
		Title:       input.Title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
	}, nil
}

func (m *MockCalendarClient) PatchEvent(ctx context.Context, eventID string, patch service.EventPatch) (*service.RemoteEvent, error) {
	if m.PatchEventFunc != nil {
		return m.PatchEventFunc(ctx, eventID, patch)
	}
	ev := &service.RemoteEvent{ID: eventID}
	if patch.Summary != nil {
		ev.Title = *patch.Summary
	}
	return ev, nil
}

func (m *MockCalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, eventID)
	}
	return nil
}
