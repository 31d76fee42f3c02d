package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
)

// defaultBlockDescription is used for study blocks created without a description.
const defaultBlockDescription = "FocusOS Study Block"

type calendarService struct {
	eventRepo repository.CalendarEventRepository
	clients   GoogleClients
	timeout   time.Duration
	logger    *logger.Logger
}

// NewCalendarService mediates every write to the user's calendar. Nothing reaches
// the provider unless the caller passed confirmed=true.
func NewCalendarService(eventRepo repository.CalendarEventRepository, clients GoogleClients, timeout time.Duration, logger *logger.Logger) CalendarService {
	return &calendarService{
		eventRepo: eventRepo,
		clients:   clients,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *calendarService) CreateStudyBlocks(ctx context.Context, userID string, blocks []model.StudyBlock, confirmed bool) (*CreateBlocksResult, error) {
	if !confirmed {
		return nil, ErrActionNotConfirmed
	}
	if len(blocks) == 0 {
		return nil, ErrNoBlocksProvided
	}

	client, err := s.clients.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &CreateBlocksResult{Events: make([]*model.CalendarEvent, 0, len(blocks))}
	for i, block := range blocks {
		event, err := s.createBlock(ctx, client, userID, block)
		if err != nil {
			s.logger.Errorf("Failed to create study block %q: %v", block.Title, err)
			result.Failed = append(result.Failed, ItemFailure{ID: fmt.Sprintf("%d", i), Error: err.Error()})
			continue
		}
		result.Events = append(result.Events, event)
	}
	result.Created = len(result.Events)

	s.logger.Infof("User %s created %d study blocks", userID, result.Created)
	s.audit(userID).Infow("calendar write", "action", "create", "created", result.Created, "failed", len(result.Failed))
	return result, nil
}

// audit returns the logger for calendar write records of one user.
func (s *calendarService) audit(userID string) *logger.Logger {
	return s.logger.With("user_id", userID, "component", "calendar")
}

func (s *calendarService) createBlock(ctx context.Context, client CalendarClient, userID string, block model.StudyBlock) (*model.CalendarEvent, error) {
	start, end, err := block.Interval()
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, errors.New("start is not before end")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	remote, err := client.InsertEvent(callCtx, EventInput{
		Title:       block.Title,
		Description: orDefault(block.Description, defaultBlockDescription),
		Start:       start,
		End:         end,
	})
	cancel()
	if err != nil {
		return nil, upstream("insert event", err)
	}

	event := model.NewCalendarEvent(userID, remote.ID, orDefault(remote.Title, block.Title), start, end)
	event.RawJSON = remote.RawJSON
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Warnf("Created event %s but failed to mirror it: %v", remote.ID, err)
	}
	return event, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, userID, gcalID string, confirmed bool, updates EventPatch) (*RemoteEvent, error) {
	if !confirmed {
		return nil, ErrActionNotConfirmed
	}

	start, err := patchTime(updates.Start)
	if err != nil {
		return nil, invalid("start: %v", err)
	}
	end, err := patchTime(updates.End)
	if err != nil {
		return nil, invalid("end: %v", err)
	}

	client, err := s.clients.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	remote, err := client.PatchEvent(callCtx, gcalID, updates)
	cancel()
	if err != nil {
		return nil, upstream("patch event", err)
	}

	mirror, err := s.eventRepo.FindByGcalID(ctx, gcalID)
	switch {
	case errors.Is(err, repository.ErrNotFound) || (err == nil && mirror.UserID != userID):
		s.logger.Debugf("No local mirror for event %s, skipping", gcalID)
	case err != nil:
		s.logger.Warnf("Failed to load mirror for event %s: %v", gcalID, err)
	default:
		if updates.Summary != nil {
			mirror.Title = *updates.Summary
		}
		if !start.IsZero() {
			mirror.Start = start
		}
		if !end.IsZero() {
			mirror.End = end
		}
		mirror.RawJSON = remote.RawJSON
		mirror.UpdatedAt = time.Now()
		if err := s.eventRepo.Update(ctx, mirror); err != nil {
			s.logger.Warnf("Updated event %s but failed to refresh its mirror: %v", gcalID, err)
		}
	}

	s.audit(userID).Infow("calendar write", "action", "update", "event_id", gcalID)
	return remote, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, userID, gcalID string, confirmed bool) error {
	if !confirmed {
		return ErrActionNotConfirmed
	}

	client, err := s.clients.Calendar(ctx, userID)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = client.DeleteEvent(callCtx, gcalID)
	cancel()
	if err != nil {
		return upstream("delete event", err)
	}

	if err := s.eventRepo.DeleteByGcalID(ctx, gcalID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warnf("Deleted event %s but failed to drop its mirror: %v", gcalID, err)
	}

	s.audit(userID).Infow("calendar write", "action", "delete", "event_id", gcalID)
	return nil
}

func patchTime(t *EventTime) (time.Time, error) {
	if t == nil || t.DateTime == "" {
		return time.Time{}, nil
	}
	return model.ParseTimestamp(t.DateTime)
}
