package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"focusos/internal/logger"
	"focusos/internal/service"
)

const (
	calendarID = "primary"
	dateLayout = "2006-01-02"
)

type calendarClient struct {
	client *calendar.Service
	logger *logger.Logger
}

// NewCalendarClient wraps an already authorized HTTP client. Extra options are applied after it.
func NewCalendarClient(ctx context.Context, httpClient *http.Client, logger *logger.Logger, opts ...option.ClientOption) (service.CalendarClient, error) {
	calendarService, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &calendarClient{
		client: calendarService,
		logger: logger,
	}, nil
}

func (c *calendarClient) ListEvents(ctx context.Context, from, to time.Time) ([]*service.RemoteEvent, error) {
	var events []*service.RemoteEvent
	pageToken := ""

	for {
		call := c.client.Events.List(calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list calendar events: %w", err)
		}
		for _, item := range page.Items {
			ev, err := toRemoteEvent(item)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.logger.Debugf("Listed %d calendar events", len(events))
	return events, nil
}

func (c *calendarClient) InsertEvent(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error) {
	event := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Start:       &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)},
	}

	created, err := c.client.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return toRemoteEvent(created)
}

func (c *calendarClient) PatchEvent(ctx context.Context, eventID string, patch service.EventPatch) (*service.RemoteEvent, error) {
	event := &calendar.Event{}
	if patch.Summary != nil {
		event.Summary = *patch.Summary
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Start != nil {
		event.Start = &calendar.EventDateTime{DateTime: patch.Start.DateTime}
	}
	if patch.End != nil {
		event.End = &calendar.EventDateTime{DateTime: patch.End.DateTime}
	}

	updated, err := c.client.Events.Patch(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar event %s: %w", eventID, err)
	}
	return toRemoteEvent(updated)
}

func (c *calendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.client.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
	}
	return nil
}

func toRemoteEvent(item *calendar.Event) (*service.RemoteEvent, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", item.Id, err)
	}

	return &service.RemoteEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Start:       eventTime(item.Start),
		End:         eventTime(item.End),
		HTMLLink:    item.HtmlLink,
		RawJSON:     string(raw),
	}, nil
}

// eventTime reads a timed or all-day boundary. The zero time means the boundary is missing.
func eventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation(dateLayout, dt.Date, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
