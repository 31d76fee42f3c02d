package memory_test

import (
	"context"
	"testing"
	"time"

	"focusos/internal/model"
	"focusos/internal/repository"
	"focusos/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleAccountUpsertKeepsOneRowPerUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemoryGoogleAccountRepository()

	first := model.NewGoogleAccount("user-1", "sub-1")
	first.AccessTokenEnc = "enc-1"
	require.NoError(t, repo.Upsert(ctx, first))

	second := model.NewGoogleAccount("user-1", "sub-1")
	second.AccessTokenEnc = "enc-2"
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "enc-2", got.AccessTokenEnc)

	_, err = repo.FindByUserID(ctx, "user-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmailFindUnreadSince(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemoryEmailRepository()
	now := time.Now()

	fresh := model.NewEmailItem("u1", "m1", "t1", "a@example.com", "fresh", "", now.Add(-time.Hour))
	newer := model.NewEmailItem("u1", "m2", "t2", "b@example.com", "newer", "", now.Add(-time.Minute))
	old := model.NewEmailItem("u1", "m3", "t3", "c@example.com", "old", "", now.Add(-72*time.Hour))
	read := model.NewEmailItem("u1", "m4", "t4", "d@example.com", "read", "", now)
	read.IsUnread = false
	other := model.NewEmailItem("u2", "m5", "t5", "e@example.com", "other", "", now)

	for _, e := range []*model.EmailItem{fresh, newer, old, read, other} {
		require.NoError(t, repo.Create(ctx, e))
	}

	got, err := repo.FindUnreadSince(ctx, "u1", now.Add(-48*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].GmailID)
	assert.Equal(t, "m1", got[1].GmailID)

	got, err = repo.FindUnreadSince(ctx, "u1", now.Add(-48*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCalendarFindInRangeUsesOverlap(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemoryCalendarEventRepository()
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, model.NewCalendarEvent("u1", "inside", "A", base, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, model.NewCalendarEvent("u1", "straddles", "B", base.Add(-time.Hour), base.Add(30*time.Minute))))
	require.NoError(t, repo.Create(ctx, model.NewCalendarEvent("u1", "before", "C", base.Add(-2*time.Hour), base)))

	got, err := repo.FindInRange(ctx, "u1", base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "straddles", got[0].GcalID)
	assert.Equal(t, "inside", got[1].GcalID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemoryUserRepository()
	user := model.NewUser("me@example.com", "Me")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.FindByEmail(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Me", again.Name)
}

func TestArtifactFindLatest(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInMemoryLearningArtifactRepository()

	require.NoError(t, repo.Create(ctx, model.NewLearningArtifact("mat", model.ArtifactGraph, `{"v":1}`)))
	require.NoError(t, repo.Create(ctx, model.NewLearningArtifact("mat", model.ArtifactGraph, `{"v":2}`)))

	got, err := repo.FindLatest(ctx, "mat", model.ArtifactGraph)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, got.ArtifactJSON)

	_, err = repo.FindLatest(ctx, "mat", model.ArtifactMCQ)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSavedStoreChecklistLookupAndActivities(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemorySavedStore()

	item := model.NewChecklistItem("u1", "client-task", "Read chapter 3", "")
	require.NoError(t, store.AddChecklistItem(ctx, item))
	assert.ErrorIs(t, store.AddChecklistItem(ctx, model.NewChecklistItem("u1", "client-task", "dup", "")), repository.ErrDuplicate)

	byID, err := store.FindChecklistItem(ctx, "u1", item.ID)
	require.NoError(t, err)
	byTask, err := store.FindChecklistItem(ctx, "u1", "client-task")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byTask.ID)

	_, err = store.FindChecklistItem(ctx, "u2", item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	now := time.Now()
	active := model.NewCalendarActivity("u1", "evt-1", "Study", now, now.Add(time.Hour), now)
	expired := model.NewCalendarActivity("u1", "evt-2", "Old", now, now.Add(time.Hour), now.Add(-25*time.Hour))
	require.NoError(t, store.AddCalendarActivity(ctx, active))
	require.NoError(t, store.AddCalendarActivity(ctx, expired))

	got, err := store.ListActiveCalendarActivities(ctx, "u1", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "evt-1", got[0].EventID)
}
