package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"focusos/internal/ai"
	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository/memory"
	"focusos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agentFixture struct {
	users   *memory.InMemoryUserRepository
	emails  *memory.InMemoryEmailRepository
	events  *memory.InMemoryCalendarEventRepository
	tasks   *memory.InMemoryTaskRepository
	plans   *memory.InMemoryPlanRepository
	triage  *memory.InMemoryTriageRunRepository
	llm     *ai.MockAIClient
	user    *model.User
	service service.AgentService
}

func newAgentFixture(t *testing.T, reply string) *agentFixture {
	f := &agentFixture{
		users:  memory.NewInMemoryUserRepository(),
		emails: memory.NewInMemoryEmailRepository(),
		events: memory.NewInMemoryCalendarEventRepository(),
		tasks:  memory.NewInMemoryTaskRepository(),
		plans:  memory.NewInMemoryPlanRepository(),
		triage: memory.NewInMemoryTriageRunRepository(),
		llm:    ai.NewMockAIClientWithReply(reply),
		user:   model.NewUser("me@example.com", "Ada"),
	}
	require.NoError(t, f.users.Create(context.Background(), f.user))

	gateway := ai.NewGateway(f.llm, 5*time.Second, logger.NewNop())
	f.service = service.NewAgentService(f.users, f.emails, f.events, f.tasks, f.plans, f.triage, gateway, logger.NewNop())
	return f
}

func mustMarshal(t *testing.T, v interface{}) string {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateWeeklyPlanDropsInvalidBlocks(t *testing.T) {
	base := time.Now().Add(2 * time.Hour).Truncate(time.Hour)
	block := func(title string, from, to time.Duration) model.StudyBlock {
		return model.StudyBlock{
			Title: title,
			Start: base.Add(from).Format(time.RFC3339),
			End:   base.Add(to).Format(time.RFC3339),
		}
	}
	reply := model.WeeklyPlan{
		WeekStartDate: "2026-10-19",
		Tasks: []model.PlanTask{
			{Title: "Revise chapter 4", SourceType: "manual", Priority: "high", Status: "todo", EstMins: 60},
		},
		StudyBlocks: []model.StudyBlock{
			block("Good", 0, time.Hour),
			block("Clashes with lab", 3*time.Hour+30*time.Minute, 4*time.Hour+30*time.Minute),
			block("Too short", 6*time.Hour, 6*time.Hour+30*time.Minute),
			block("Overlaps good", 30*time.Minute, 90*time.Minute),
		},
	}
	f := newAgentFixture(t, mustMarshal(t, reply))

	lab := model.NewCalendarEvent(f.user.ID, "lab", "Lab", base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, f.events.Create(context.Background(), lab))
	_, err := f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: "Revise chapter 4", Priority: "high"})
	require.NoError(t, err)

	plan, err := f.service.GenerateWeeklyPlan(context.Background(), f.user.ID, "2026-10-19")
	require.NoError(t, err)
	require.Len(t, plan.StudyBlocks, 1)
	assert.Equal(t, "Good", plan.StudyBlocks[0].Title)
	assert.Contains(t, f.llm.LastPrompt(), "Revise chapter 4")

	records, err := f.plans.FindByUserID(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-10-19", records[0].WeekStartDate.Format("2006-01-02"))

	var stored model.WeeklyPlan
	require.NoError(t, json.Unmarshal([]byte(records[0].PlanJSON), &stored))
	assert.Equal(t, plan.StudyBlocks, stored.StudyBlocks)
}

func TestGenerateWeeklyPlanRejectsBadReply(t *testing.T) {
	f := newAgentFixture(t, `{"weekStartDate":"2026-10-19","tasks":[]}`)

	_, err := f.service.GenerateWeeklyPlan(context.Background(), f.user.ID, "")
	assert.ErrorIs(t, err, ai.ErrLLMOutputInvalid)

	records, err := f.plans.FindByUserID(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGenerateWeeklyPlanRejectsBadDate(t *testing.T) {
	f := newAgentFixture(t, "{}")

	_, err := f.service.GenerateWeeklyPlan(context.Background(), f.user.ID, "next week")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, 0, f.llm.Calls())
}

func seedUnread(t *testing.T, f *agentFixture, gmailID, from string, age time.Duration) {
	item := model.NewEmailItem(f.user.ID, gmailID, "t-"+gmailID, from, "Subject "+gmailID, "snippet", time.Now().Add(-age))
	require.NoError(t, f.emails.Create(context.Background(), item))
}

func TestTriageInboxReconcilesResults(t *testing.T) {
	reply := []model.TriageResult{
		{GmailID: "m1", Classification: "ACTION", Reason: "Asks for a reply", DraftReply: "Sure.\nAda"},
		{GmailID: "m2", Classification: "SPAM", Reason: "Promo", DraftReply: "should be dropped"},
		{GmailID: "m3", Classification: "SPAM", Reason: "Looks automated"},
		{GmailID: "ghost", Classification: "FYI", Reason: "Not in the inbox"},
	}
	f := newAgentFixture(t, mustMarshal(t, reply))
	seedUnread(t, f, "m1", "Bob <bob@example.com>", time.Hour)
	seedUnread(t, f, "m2", "deals@shop.example", 2*time.Hour)
	seedUnread(t, f, "m3", "Ada <ME@example.com>", 3*time.Hour)
	seedUnread(t, f, "old", "Carol <carol@example.com>", 72*time.Hour)

	results, err := f.service.TriageInbox(context.Background(), f.user.ID, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := map[string]model.TriageResult{}
	for _, r := range results {
		byID[r.GmailID] = r
	}
	assert.Equal(t, "ACTION", byID["m1"].Classification)
	assert.Equal(t, "Subject m1", byID["m1"].Subject)
	assert.Equal(t, "SPAM", byID["m2"].Classification)
	assert.Empty(t, byID["m2"].DraftReply)
	assert.Equal(t, "FYI", byID["m3"].Classification)
	assert.NotContains(t, byID, "ghost")

	prompt := f.llm.LastPrompt()
	assert.Contains(t, prompt, "Ada")
	assert.NotContains(t, prompt, "Subject old")

	runs, err := f.triage.FindByUserID(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].ResultJSON, `"m3"`)
}

func TestTriageInboxWithNothingUnread(t *testing.T) {
	f := newAgentFixture(t, "[]")

	results, err := f.service.TriageInbox(context.Background(), f.user.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 0, f.llm.Calls())

	runs, err := f.triage.FindByUserID(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestAddTaskDefaultsAndValidation(t *testing.T) {
	f := newAgentFixture(t, "{}")

	task, err := f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: "Essay"})
	require.NoError(t, err)
	assert.Equal(t, "medium", task.Priority)
	assert.Equal(t, 60, task.EstMins)

	_, err = f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: " "})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: "Odd", EstMins: 7})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: "Late", DueAt: "next week"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	tasks, err := f.service.ListTasks(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskDeadlineReachesPlanPrompt(t *testing.T) {
	f := newAgentFixture(t, `{"weekStartDate":"2026-10-19","tasks":[],"studyBlocks":[]}`)

	task, err := f.service.AddTask(context.Background(), f.user.ID, service.AddTaskRequest{Title: "Lab report", DueAt: "2026-10-21"})
	require.NoError(t, err)
	require.NotNil(t, task.DueAt)
	assert.Equal(t, "2026-10-21", task.DueAt.Format("2006-01-02"))

	_, err = f.service.GenerateWeeklyPlan(context.Background(), f.user.ID, "2026-10-19")
	require.NoError(t, err)
	assert.Contains(t, f.llm.LastPrompt(), `"due":"2026-10-21T00:00:00`)
}
