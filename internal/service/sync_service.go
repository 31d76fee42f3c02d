package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
)

const (
	DefaultGmailLimit   = 10
	DefaultCalendarDays = 7

	noSubject = "(No Subject)"
	noSender  = "(Unknown)"
	noTitle   = "(No Title)"
	untitled  = "Untitled"
)

type syncService struct {
	emailRepo repository.EmailRepository
	eventRepo repository.CalendarEventRepository
	docRepo   repository.DocRepository
	clients   GoogleClients
	timeout   time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

func NewSyncService(
	emailRepo repository.EmailRepository,
	eventRepo repository.CalendarEventRepository,
	docRepo repository.DocRepository,
	clients GoogleClients,
	timeout time.Duration,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		emailRepo: emailRepo,
		eventRepo: eventRepo,
		docRepo:   docRepo,
		clients:   clients,
		timeout:   timeout,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *syncService) SyncGmail(ctx context.Context, userID string, limit int) (*SyncResult[*model.EmailItem], error) {
	if limit <= 0 {
		limit = DefaultGmailLimit
	}

	client, err := s.clients.Gmail(ctx, userID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	refs, err := client.ListUnread(callCtx, int64(limit))
	cancel()
	if err != nil {
		return nil, upstream("list unread messages", err)
	}

	result := &SyncResult[*model.EmailItem]{Items: make([]*model.EmailItem, 0, len(refs))}
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		item, err := s.syncMessage(ctx, client, userID, ref)
		if err != nil {
			s.logger.Errorf("Failed to sync message %s: %v", ref.ID, err)
			result.Failed = append(result.Failed, ItemFailure{ID: ref.ID, Error: err.Error()})
			continue
		}
		result.Items = append(result.Items, item)
	}

	s.logger.Infof("Synced %d emails for user %s (%d failed)", len(result.Items), userID, len(result.Failed))
	return result, nil
}

// syncMessage upserts one message. Existing rows only get their unread flag refreshed.
func (s *syncService) syncMessage(ctx context.Context, client GmailClient, userID string, ref MessageRef) (*model.EmailItem, error) {
	existing, err := s.emailRepo.FindByGmailID(ctx, ref.ID)
	if err == nil {
		existing.IsUnread = true
		existing.UpdatedAt = s.now()
		if err := s.emailRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update email: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	msg, err := client.GetMessage(callCtx, ref.ID)
	cancel()
	if err != nil {
		return nil, upstream("get message", err)
	}

	threadID := msg.ThreadID
	if threadID == "" {
		threadID = ref.ThreadID
	}
	item := model.NewEmailItem(
		userID,
		ref.ID,
		threadID,
		orDefault(msg.From, noSender),
		orDefault(msg.Subject, noSubject),
		msg.Snippet,
		time.UnixMilli(msg.InternalDate),
	)
	item.RawJSON = msg.RawJSON

	if err := s.emailRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save email: %w", err)
	}
	return item, nil
}

func (s *syncService) SyncCalendar(ctx context.Context, userID string, days int) (*SyncResult[*model.CalendarEvent], error) {
	if days <= 0 {
		days = DefaultCalendarDays
	}

	client, err := s.clients.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	remote, err := client.ListEvents(callCtx, now, now.AddDate(0, 0, days))
	cancel()
	if err != nil {
		return nil, upstream("list calendar events", err)
	}

	result := &SyncResult[*model.CalendarEvent]{Items: make([]*model.CalendarEvent, 0, len(remote))}
	for _, ev := range remote {
		if ev.ID == "" {
			continue
		}
		if ev.Start.IsZero() || ev.End.IsZero() {
			s.logger.Debugf("Skipping calendar event %s without start or end", ev.ID)
			continue
		}
		item, err := s.upsertEvent(ctx, userID, ev)
		if err != nil {
			s.logger.Errorf("Failed to sync calendar event %s: %v", ev.ID, err)
			result.Failed = append(result.Failed, ItemFailure{ID: ev.ID, Error: err.Error()})
			continue
		}
		result.Items = append(result.Items, item)
	}

	s.logger.Infof("Synced %d calendar events for user %s (%d failed)", len(result.Items), userID, len(result.Failed))
	return result, nil
}

// upsertEvent fully refreshes an existing mirror row or creates a new one.
func (s *syncService) upsertEvent(ctx context.Context, userID string, ev *RemoteEvent) (*model.CalendarEvent, error) {
	title := orDefault(ev.Title, noTitle)

	existing, err := s.eventRepo.FindByGcalID(ctx, ev.ID)
	if err == nil {
		existing.Title = title
		existing.Start = ev.Start
		existing.End = ev.End
		existing.Location = ev.Location
		existing.RawJSON = ev.RawJSON
		existing.UpdatedAt = s.now()
		if err := s.eventRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update calendar event: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	item := model.NewCalendarEvent(userID, ev.ID, title, ev.Start, ev.End)
	item.Location = ev.Location
	item.RawJSON = ev.RawJSON
	if err := s.eventRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save calendar event: %w", err)
	}
	return item, nil
}

func (s *syncService) SyncDocs(ctx context.Context, userID string, req SyncDocsRequest) (*SyncResult[*model.DocItem], error) {
	result := &SyncResult[*model.DocItem]{Items: []*model.DocItem{}}

	if req.DocID == "" {
		if req.FolderID != "" {
			s.logger.Warnf("Folder sync requested for %s but only single documents are synced", req.FolderID)
		}
		return result, nil
	}

	client, err := s.clients.Drive(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.syncDoc(ctx, client, userID, req.DocID)
	if err != nil {
		s.logger.Errorf("Failed to sync doc %s: %v", req.DocID, err)
		result.Failed = append(result.Failed, ItemFailure{ID: req.DocID, Error: err.Error()})
		return result, nil
	}
	result.Items = append(result.Items, item)

	s.logger.Infof("Synced doc %s for user %s", req.DocID, userID)
	return result, nil
}

func (s *syncService) syncDoc(ctx context.Context, client DriveClient, userID, fileID string) (*model.DocItem, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	file, err := client.GetFile(callCtx, fileID)
	if err != nil {
		return nil, upstream("get drive file", err)
	}

	text := ""
	if file.MimeType == model.GoogleDocumentMIMEType {
		text, err = client.ExportText(callCtx, fileID)
		if err != nil {
			return nil, upstream("export drive file", err)
		}
	}

	title := orDefault(file.Name, untitled)
	modified := file.ModifiedTime
	if modified.IsZero() {
		modified = s.now()
	}

	existing, err := s.docRepo.FindByFileID(ctx, fileID)
	if err == nil {
		existing.Title = title
		existing.ModifiedTime = modified
		existing.ExtractedText = text
		existing.UpdatedAt = s.now()
		if err := s.docRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update doc: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	item := model.NewDocItem(userID, fileID, title)
	item.ModifiedTime = modified
	item.ExtractedText = text
	item.RawJSON = file.RawJSON
	if err := s.docRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save doc: %w", err)
	}
	return item, nil
}

// SyncAll runs the Gmail and Calendar synchronizers concurrently. Docs need a
// target id and are not part of the bulk path.
func (s *syncService) SyncAll(ctx context.Context, userID string) (*SyncAllResult, error) {
	var (
		gmail    *SyncResult[*model.EmailItem]
		calendar *SyncResult[*model.CalendarEvent]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gmail, err = s.SyncGmail(gctx, userID, DefaultGmailLimit)
		return err
	})
	g.Go(func() error {
		var err error
		calendar, err = s.SyncCalendar(gctx, userID, DefaultCalendarDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SyncAllResult{
		Gmail:    len(gmail.Items),
		Calendar: len(calendar.Items),
	}
	result.Failed = append(result.Failed, gmail.Failed...)
	result.Failed = append(result.Failed, calendar.Failed...)
	return result, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
