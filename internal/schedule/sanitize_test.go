package schedule_test

import (
	"testing"
	"time"

	"focusos/internal/model"
	"focusos/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h, m int) string {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute).Format(time.RFC3339)
}

func block(title, start, end string) model.StudyBlock {
	return model.StudyBlock{Title: title, Start: start, End: end}
}

func window() schedule.Window {
	return schedule.Window{Start: day.Add(7 * time.Hour), End: day.Add(7*time.Hour + 72*time.Hour)}
}

func TestSanitizeDropsBlocksOverlappingBusySlots(t *testing.T) {
	busy := []*model.CalendarEvent{
		model.NewCalendarEvent("u1", "g1", "Standup", day.Add(9*time.Hour), day.Add(10*time.Hour)),
	}
	blocks := []model.StudyBlock{
		block("clash", at(9, 30), at(10, 30)),
		block("before", at(8, 0), at(9, 0)),
		block("after", at(10, 0), at(11, 30)),
	}

	kept, rejected := schedule.Sanitize(blocks, busy, window())

	require.Len(t, kept, 2)
	assert.Equal(t, "before", kept[0].Title)
	assert.Equal(t, "after", kept[1].Title)
	require.Len(t, rejected, 1)
	assert.Equal(t, "clash", rejected[0].Block.Title)
}

func TestSanitizeEnforcesDurationAndOrder(t *testing.T) {
	blocks := []model.StudyBlock{
		block("too short", at(8, 0), at(8, 45)),
		block("too long", at(12, 0), at(14, 30)),
		block("reversed", at(15, 0), at(14, 0)),
		block("garbage", "tomorrow morning", at(9, 0)),
		block("ok min", at(16, 0), at(16, 50)),
		block("ok max", at(18, 0), at(20, 0)),
	}

	kept, rejected := schedule.Sanitize(blocks, nil, window())

	require.Len(t, kept, 2)
	assert.Equal(t, "ok min", kept[0].Title)
	assert.Equal(t, "ok max", kept[1].Title)
	assert.Len(t, rejected, 4)
}

func TestSanitizeKeepsEarliestOfOverlappingBlocks(t *testing.T) {
	blocks := []model.StudyBlock{
		block("late", at(10, 0), at(11, 0)),
		block("early", at(9, 30), at(10, 30)),
		block("touching", at(10, 30), at(11, 30)),
	}

	kept, _ := schedule.Sanitize(blocks, nil, window())

	require.Len(t, kept, 2)
	assert.Equal(t, "early", kept[0].Title)
	assert.Equal(t, "touching", kept[1].Title)
}

func TestSanitizeRespectsWindow(t *testing.T) {
	blocks := []model.StudyBlock{
		block("before window", at(6, 0), at(7, 0)),
		block("after window", day.Add(80*time.Hour).Format(time.RFC3339), day.Add(81*time.Hour).Format(time.RFC3339)),
		block("inside", at(7, 0), at(8, 0)),
	}

	kept, rejected := schedule.Sanitize(blocks, nil, window())

	require.Len(t, kept, 1)
	assert.Equal(t, "inside", kept[0].Title)
	assert.Len(t, rejected, 2)
}

func TestSanitizedPlanHoldsInvariants(t *testing.T) {
	busy := []*model.CalendarEvent{
		model.NewCalendarEvent("u1", "g1", "Lecture", day.Add(13*time.Hour), day.Add(15*time.Hour)),
	}
	var blocks []model.StudyBlock
	for h := 7; h < 20; h++ {
		blocks = append(blocks, block("b", at(h, 15), at(h+1, 45)))
	}

	kept, _ := schedule.Sanitize(blocks, busy, window())
	require.NotEmpty(t, kept)

	for i, a := range kept {
		as, ae, err := a.Interval()
		require.NoError(t, err)
		d := ae.Sub(as)
		assert.True(t, d >= schedule.MinBlock && d <= schedule.MaxBlock)
		for _, e := range busy {
			assert.False(t, e.Overlaps(as, ae))
		}
		for j, b := range kept {
			if i == j {
				continue
			}
			bs, be, _ := b.Interval()
			assert.True(t, !ae.After(bs) || !be.After(as), "blocks %d and %d overlap", i, j)
		}
	}
}
