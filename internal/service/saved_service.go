package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
)

// errMissingFields is what every /save route reports for an incomplete body.
var errMissingFields = invalid("missing required fields")

type savedService struct {
	store  repository.SavedStore
	now    func() time.Time
	logger *logger.Logger
}

func NewSavedService(store repository.SavedStore, logger *logger.Logger) SavedService {
	return &savedService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

func (s *savedService) SavePlan(ctx context.Context, userID string, req SavePlanRequest) (string, error) {
	if req.WeekStartDate == "" || req.Plan == nil {
		return "", errMissingFields
	}
	weekStart, err := parseDate(req.WeekStartDate)
	if err != nil {
		return "", invalid("weekStartDate %q is not a date", req.WeekStartDate)
	}

	planJSON, ok := req.Plan.(string)
	if !ok {
		data, err := json.Marshal(req.Plan)
		if err != nil {
			return "", invalid("planJson: %v", err)
		}
		planJSON = string(data)
	}

	plan := model.NewSavedPlan(userID, weekStart, planJSON)
	if err := s.store.SavePlan(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to save plan: %w", err)
	}
	return plan.ID, nil
}

func (s *savedService) ListPlans(ctx context.Context, userID string) ([]*model.SavedPlan, error) {
	return s.store.ListPlans(ctx, userID)
}

func (s *savedService) SaveSummary(ctx context.Context, userID string, req SaveSummaryRequest) (string, error) {
	if req.SourceFile == "" || req.SummaryText == "" {
		return "", errMissingFields
	}

	summary := model.NewSavedSummary(userID, req.SourceFile, req.SummaryText)
	if err := s.store.SaveSummary(ctx, summary); err != nil {
		return "", fmt.Errorf("failed to save summary: %w", err)
	}
	return summary.ID, nil
}

func (s *savedService) SaveLearningSession(ctx context.Context, userID string, req SaveLearningSessionRequest) (string, error) {
	if req.Filename == "" {
		return "", errMissingFields
	}

	session := model.NewSavedLearningSession(userID, req.Filename, req.Summary, req.Graph, req.Quiz)
	if err := s.store.SaveLearningSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save learning session: %w", err)
	}
	return session.ID, nil
}

func (s *savedService) ListLearningSessions(ctx context.Context, userID string) ([]*model.SavedLearningSession, error) {
	return s.store.ListLearningSessions(ctx, userID)
}

func (s *savedService) ListChecklist(ctx context.Context, userID string) ([]*model.ChecklistItem, error) {
	return s.store.ListChecklist(ctx, userID)
}

func (s *savedService) AddChecklistItem(ctx context.Context, userID string, req AddChecklistItemRequest) (*model.ChecklistItem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errMissingFields
	}

	item := model.NewChecklistItem(userID, req.TaskID, title, req.Description)
	if err := s.store.AddChecklistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add checklist item: %w", err)
	}
	return item, nil
}

func (s *savedService) ClearChecklist(ctx context.Context, userID string) error {
	return s.store.ClearChecklist(ctx, userID)
}

func (s *savedService) ToggleChecklistItem(ctx context.Context, userID, id string) (*model.ChecklistItem, error) {
	item, err := s.store.FindChecklistItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	item.Toggle(s.now())
	if err := s.store.UpdateChecklistItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	return item, nil
}

func (s *savedService) AddCalendarActivity(ctx context.Context, userID string, req AddCalendarActivityRequest) (*model.CalendarActivity, error) {
	if req.EventID == "" || req.Title == "" || req.Start == "" || req.End == "" {
		return nil, errMissingFields
	}
	start, err := model.ParseTimestamp(req.Start)
	if err != nil {
		return nil, invalid("start %q is not a timestamp", req.Start)
	}
	end, err := model.ParseTimestamp(req.End)
	if err != nil {
		return nil, invalid("end %q is not a timestamp", req.End)
	}

	activity := model.NewCalendarActivity(userID, req.EventID, req.Title, start, end, s.now())
	if err := s.store.AddCalendarActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record calendar activity: %w", err)
	}
	return activity, nil
}

// ListCalendarActivities returns activities added within the last day.
func (s *savedService) ListCalendarActivities(ctx context.Context, userID string) ([]*model.CalendarActivity, error) {
	return s.store.ListActiveCalendarActivities(ctx, userID, s.now())
}
