package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
	"focusos/internal/repository/memory"
	"focusos/internal/service"
	"focusos/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarFixture struct {
	events  *memory.InMemoryCalendarEventRepository
	clients *workspace.MockClients
	service service.CalendarService
}

func newCalendarFixture() *calendarFixture {
	f := &calendarFixture{
		events:  memory.NewInMemoryCalendarEventRepository(),
		clients: workspace.NewMockClients(),
	}
	f.service = service.NewCalendarService(f.events, f.clients, 5*time.Second, logger.NewNop())
	return f
}

func studyBlock(title string, start time.Time, d time.Duration) model.StudyBlock {
	return model.StudyBlock{Title: title, Start: start.Format(time.RFC3339), End: start.Add(d).Format(time.RFC3339)}
}

func TestWritesRequireConfirmation(t *testing.T) {
	f := newCalendarFixture()
	writes := 0
	f.clients.CalendarClient.InsertEventFunc = func(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error) {
		writes++
		return &service.RemoteEvent{ID: "x"}, nil
	}
	f.clients.CalendarClient.PatchEventFunc = func(ctx context.Context, eventID string, patch service.EventPatch) (*service.RemoteEvent, error) {
		writes++
		return &service.RemoteEvent{ID: eventID}, nil
	}
	f.clients.CalendarClient.DeleteEventFunc = func(ctx context.Context, eventID string) error {
		writes++
		return nil
	}

	blocks := []model.StudyBlock{studyBlock("Focus", time.Now().Add(time.Hour), time.Hour)}
	_, err := f.service.CreateStudyBlocks(context.Background(), "u1", blocks, false)
	assert.ErrorIs(t, err, service.ErrActionNotConfirmed)

	_, err = f.service.UpdateEvent(context.Background(), "u1", "e1", false, service.EventPatch{})
	assert.ErrorIs(t, err, service.ErrActionNotConfirmed)

	err = f.service.DeleteEvent(context.Background(), "u1", "e1", false)
	assert.ErrorIs(t, err, service.ErrActionNotConfirmed)

	assert.Equal(t, 0, writes)
}

func TestCreateStudyBlocksRequiresBlocks(t *testing.T) {
	f := newCalendarFixture()

	_, err := f.service.CreateStudyBlocks(context.Background(), "u1", nil, true)
	assert.ErrorIs(t, err, service.ErrNoBlocksProvided)
}

func TestCreateStudyBlocksContinuesPastFailures(t *testing.T) {
	f := newCalendarFixture()
	base := time.Now().Add(time.Hour).Truncate(time.Minute)
	calls := 0
	f.clients.CalendarClient.InsertEventFunc = func(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error) {
		calls++
		if input.Title == "Rejected" {
			return nil, errors.New("quota exceeded")
		}
		return &service.RemoteEvent{ID: "evt-" + input.Title, Title: input.Title, Start: input.Start, End: input.End}, nil
	}

	blocks := []model.StudyBlock{
		studyBlock("First", base, time.Hour),
		studyBlock("Rejected", base.Add(2*time.Hour), time.Hour),
		studyBlock("Third", base.Add(4*time.Hour), time.Hour),
	}
	result, err := f.service.CreateStudyBlocks(context.Background(), "u1", blocks, true)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Events, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "1", result.Failed[0].ID)

	mirrored, err := f.events.FindByGcalID(context.Background(), "evt-Third")
	require.NoError(t, err)
	assert.Equal(t, "u1", mirrored.UserID)
	assert.True(t, mirrored.Start.Equal(base.Add(4*time.Hour)))
}

func TestCreateStudyBlocksDefaultsDescription(t *testing.T) {
	f := newCalendarFixture()
	var inputs []service.EventInput
	f.clients.CalendarClient.InsertEventFunc = func(ctx context.Context, input service.EventInput) (*service.RemoteEvent, error) {
		inputs = append(inputs, input)
		return &service.RemoteEvent{ID: input.Title, Title: input.Title}, nil
	}

	start := time.Now().Add(time.Hour).Truncate(time.Minute)
	described := studyBlock("Read", start.Add(2*time.Hour), time.Hour)
	described.Description = "Chapter 4"
	blocks := []model.StudyBlock{studyBlock("Focus", start, time.Hour), described}

	result, err := f.service.CreateStudyBlocks(context.Background(), "u1", blocks, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, inputs, 2)
	assert.Equal(t, "FocusOS Study Block", inputs[0].Description)
	assert.Equal(t, "Chapter 4", inputs[1].Description)
}

func TestCreateStudyBlocksSkipsUnparseableBlock(t *testing.T) {
	f := newCalendarFixture()
	blocks := []model.StudyBlock{{Title: "Broken", Start: "tomorrow", End: "later"}}

	result, err := f.service.CreateStudyBlocks(context.Background(), "u1", blocks, true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Len(t, result.Failed, 1)
}

func TestUpdateEventRefreshesMirror(t *testing.T) {
	f := newCalendarFixture()
	start := time.Now().Add(time.Hour).Truncate(time.Minute)
	require.NoError(t, f.events.Create(context.Background(), model.NewCalendarEvent("u1", "e1", "Old", start, start.Add(time.Hour))))

	title := "Renamed"
	newEnd := start.Add(90 * time.Minute)
	remote, err := f.service.UpdateEvent(context.Background(), "u1", "e1", true, service.EventPatch{
		Summary: &title,
		End:     &service.EventTime{DateTime: newEnd.Format(time.RFC3339)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", remote.Title)

	mirror, err := f.events.FindByGcalID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", mirror.Title)
	assert.True(t, mirror.Start.Equal(start))
	assert.True(t, mirror.End.Equal(newEnd))
}

func TestUpdateEventWithoutMirror(t *testing.T) {
	f := newCalendarFixture()
	title := "Renamed"

	remote, err := f.service.UpdateEvent(context.Background(), "u1", "unknown", true, service.EventPatch{Summary: &title})
	require.NoError(t, err)
	assert.Equal(t, "unknown", remote.ID)
}

func TestUpdateEventRejectsBadTime(t *testing.T) {
	f := newCalendarFixture()

	_, err := f.service.UpdateEvent(context.Background(), "u1", "e1", true, service.EventPatch{
		Start: &service.EventTime{DateTime: "soon"},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestDeleteEventDropsMirror(t *testing.T) {
	f := newCalendarFixture()
	start := time.Now().Add(time.Hour)
	require.NoError(t, f.events.Create(context.Background(), model.NewCalendarEvent("u1", "e1", "Gone", start, start.Add(time.Hour))))

	var deleted string
	f.clients.CalendarClient.DeleteEventFunc = func(ctx context.Context, eventID string) error {
		deleted = eventID
		return nil
	}

	require.NoError(t, f.service.DeleteEvent(context.Background(), "u1", "e1", true))
	assert.Equal(t, "e1", deleted)

	_, err := f.events.FindByGcalID(context.Background(), "e1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEventUpstreamFailureKeepsMirror(t *testing.T) {
	f := newCalendarFixture()
	start := time.Now().Add(time.Hour)
	require.NoError(t, f.events.Create(context.Background(), model.NewCalendarEvent("u1", "e1", "Kept", start, start.Add(time.Hour))))
	f.clients.CalendarClient.DeleteEventFunc = func(ctx context.Context, eventID string) error {
		return errors.New("forbidden")
	}

	assert.Error(t, f.service.DeleteEvent(context.Background(), "u1", "e1", true))

	_, err := f.events.FindByGcalID(context.Background(), "e1")
	assert.NoError(t, err)
}

func TestCalendarWritesAreAudited(t *testing.T) {
	var out bytes.Buffer
	events := memory.NewInMemoryCalendarEventRepository()
	svc := service.NewCalendarService(events, workspace.NewMockClients(), 5*time.Second, logger.NewWithWriter(&out))

	require.NoError(t, svc.DeleteEvent(context.Background(), "u1", "evt-9", true))

	logged := out.String()
	assert.Contains(t, logged, "calendar write")
	assert.Contains(t, logged, `"user_id": "u1"`)
	assert.Contains(t, logged, `"action": "delete"`)
	assert.Contains(t, logged, `"event_id": "evt-9"`)
}
