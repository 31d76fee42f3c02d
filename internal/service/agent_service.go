package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/go-playground/validator/v10"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/prompt"
	"focusos/internal/repository"
	"focusos/internal/schedule"
)

const (
	DefaultTriageLimit = 10

	triageLookback = 48 * time.Hour
	planningWindow = 72 * time.Hour
	busyHorizon    = 24 * time.Hour
	weekSpan       = 7 * 24 * time.Hour
)

type agentService struct {
	userRepo   repository.UserRepository
	emailRepo  repository.EmailRepository
	eventRepo  repository.CalendarEventRepository
	taskRepo   repository.TaskRepository
	planRepo   repository.PlanRepository
	triageRepo repository.TriageRunRepository
	llm        LLM
	validate   *validator.Validate
	now        func() time.Time
	logger     *logger.Logger
}

func NewAgentService(
	userRepo repository.UserRepository,
	emailRepo repository.EmailRepository,
	eventRepo repository.CalendarEventRepository,
	taskRepo repository.TaskRepository,
	planRepo repository.PlanRepository,
	triageRepo repository.TriageRunRepository,
	llm LLM,
	logger *logger.Logger,
) AgentService {
	return &agentService{
		userRepo:   userRepo,
		emailRepo:  emailRepo,
		eventRepo:  eventRepo,
		taskRepo:   taskRepo,
		planRepo:   planRepo,
		triageRepo: triageRepo,
		llm:        llm,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}
}

func (s *agentService) GenerateWeeklyPlan(ctx context.Context, userID string, weekStartDate string) (*model.WeeklyPlan, error) {
	now := s.now()
	weekStart := now
	if weekStartDate != "" {
		parsed, err := parseDate(weekStartDate)
		if err != nil {
			return nil, invalid("weekStartDate %q is not a date", weekStartDate)
		}
		weekStart = parsed
	} else {
		weekStartDate = now.Format(time.RFC3339)
	}

	weekEvents, err := s.eventRepo.FindInRange(ctx, userID, weekStart, weekStart.Add(weekSpan))
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar events: %w", err)
	}
	tasks, err := s.taskRepo.FindByStatus(ctx, userID, model.TaskStatusTodo)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	window := schedule.Window{Start: now, End: now.Add(planningWindow)}
	busy, err := s.eventRepo.FindInRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load busy slots: %w", err)
	}

	s.logger.Infof("Generating plan for user %s from %d events and %d tasks", userID, len(weekEvents), len(tasks))

	var plan model.WeeklyPlan
	err = s.llm.Generate(ctx, prompt.WeeklyPlan(prompt.PlanInput{
		Now:         now,
		WindowEnd:   window.End,
		BusySlots:   upcoming(busy, now, now.Add(busyHorizon)),
		WeekEvents:  weekEvents,
		Tasks:       tasks,
		WeekStartAt: weekStartDate,
	}), &plan)
	if err != nil {
		return nil, err
	}

	kept, rejected := schedule.Sanitize(plan.StudyBlocks, busy, window)
	for _, r := range rejected {
		s.logger.Warnf("Dropped study block %q (%s - %s): %s", r.Block.Title, r.Block.Start, r.Block.End, r.Reason)
	}
	plan.StudyBlocks = kept

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := s.planRepo.Create(ctx, model.NewPlanRecord(userID, weekStart, string(planJSON))); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	return &plan, nil
}

func (s *agentService) TriageInbox(ctx context.Context, userID string, limit int) ([]model.TriageResult, error) {
	if limit <= 0 {
		limit = DefaultTriageLimit
	}

	emails, err := s.emailRepo.FindUnreadSince(ctx, userID, s.now().Add(-triageLookback), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails: %w", err)
	}
	if len(emails) == 0 {
		return []model.TriageResult{}, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var raw []model.TriageResult
	if err := s.llm.Generate(ctx, prompt.Triage(user.Email, user.Name, emails), &raw); err != nil {
		return nil, err
	}

	results := s.reconcileTriage(raw, emails, user.Email)

	runJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode triage results: %w", err)
	}
	if err := s.triageRepo.Create(ctx, model.NewTriageRun(userID, string(runJSON))); err != nil {
		return nil, fmt.Errorf("failed to save triage run: %w", err)
	}

	s.logger.Infof("Triaged %d emails for user %s", len(results), userID)
	return results, nil
}

// reconcileTriage keeps one result per known message and enforces the rules the
// model is only asked to follow: self-emails are never SPAM and SPAM gets no draft.
func (s *agentService) reconcileTriage(raw []model.TriageResult, emails []*model.EmailItem, userEmail string) []model.TriageResult {
	byID := make(map[string]*model.EmailItem, len(emails))
	for _, e := range emails {
		byID[e.GmailID] = e
	}

	seen := make(map[string]bool, len(raw))
	results := make([]model.TriageResult, 0, len(raw))
	for _, r := range raw {
		email, ok := byID[r.GmailID]
		if !ok || seen[r.GmailID] {
			s.logger.Warnf("Ignoring triage result for unexpected message %q", r.GmailID)
			continue
		}
		seen[r.GmailID] = true

		r.Subject = email.Subject
		r.From = email.From
		if r.Classification == model.ClassificationSpam && isSelf(email.From, userEmail) {
			r.Classification = model.ClassificationFYI
			r.Reason = "Sent by you"
		}
		if r.Classification == model.ClassificationSpam {
			r.DraftReply = ""
		}
		results = append(results, r)
	}
	return results
}

func (s *agentService) ListPlans(ctx context.Context, userID string) ([]*model.PlanRecord, error) {
	return s.planRepo.FindByUserID(ctx, userID)
}

func (s *agentService) ListTriageRuns(ctx context.Context, userID string) ([]*model.TriageRun, error) {
	return s.triageRepo.FindByUserID(ctx, userID)
}

func (s *agentService) AddTask(ctx context.Context, userID string, req AddTaskRequest) (*model.Task, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	estMins := req.EstMins
	if estMins == 0 {
		estMins = 60
	}

	task := model.NewTask(userID, strings.TrimSpace(req.Title), priority, estMins)
	if req.DueAt != "" {
		due, err := parseDate(req.DueAt)
		if err != nil {
			return nil, invalid("dueAt %q is not a date", req.DueAt)
		}
		task.DueAt = &due
	}
	if err := s.validate.Struct(task); err != nil {
		return nil, invalid("%v", err)
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return task, nil
}

func (s *agentService) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	return s.taskRepo.FindByStatus(ctx, userID, model.TaskStatusTodo)
}

// upcoming returns events starting within [from, to].
func upcoming(events []*model.CalendarEvent, from, to time.Time) []*model.CalendarEvent {
	var out []*model.CalendarEvent
	for _, e := range events {
		if !e.Start.Before(from) && !e.Start.After(to) {
			out = append(out, e)
		}
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	if t, err := model.ParseTimestamp(value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// isSelf reports whether a From header names the user's own address.
func isSelf(from, userEmail string) bool {
	if userEmail == "" {
		return false
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return strings.EqualFold(addr.Address, userEmail)
	}
	return strings.Contains(strings.ToLower(from), strings.ToLower(userEmail))
}
