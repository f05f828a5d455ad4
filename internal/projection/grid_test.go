package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

func allSources() map[string]struct{} {
	return map[string]struct{}{"1": {}, "2": {}}
}

func event(id, date, start, end, sourceID string) models.Event {
	return models.Event{
		ID:         id,
		Title:      "Meeting " + id,
		ClientID:   "c" + id,
		ClientName: "Client " + id,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Kind:       models.EventKindVideo,
		SourceID:   sourceID,
	}
}

func TestDayBucketsByStartHour(t *testing.T) {
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		event("1", "2026-03-10", "09:30", "10:00", "1"),
		event("2", "2026-03-10", "09:00", "09:15", "1"),
		event("3", "2026-03-10", "14:00", "15:00", "1"),
		event("4", "2026-03-11", "09:00", "10:00", "1"),
	}

	view := Day(events, allSources(), ref, ref)

	require.Len(t, view.Hours, 24)
	assert.Equal(t, 3, view.Total)
	assert.True(t, view.IsToday)

	nine := view.Hours[9]
	require.Len(t, nine.Events, 2)
	assert.Equal(t, "2", nine.Events[0].ID, "events within an hour sort by start time")
	assert.Equal(t, "1", nine.Events[1].ID)
	assert.Len(t, view.Hours[14].Events, 1)
	assert.Empty(t, view.Hours[8].Events)
}

func TestDayFiltersDisabledSources(t *testing.T) {
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		event("1", "2026-03-10", "09:00", "10:00", "1"),
		event("2", "2026-03-10", "10:00", "11:00", "2"),
	}

	view := Day(events, map[string]struct{}{"1": {}}, ref, ref)
	assert.Equal(t, 1, view.Total)
	assert.Empty(t, view.Hours[10].Events)
}

func TestWeekStartsOnSunday(t *testing.T) {
	// 2026-03-10 is a Tuesday.
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	view := Week(nil, allSources(), ref, ref)

	assert.Equal(t, "2026-03-08", view.StartDate)
	assert.Equal(t, "2026-03-14", view.EndDate)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "2026-03-08", view.Days[0].Date)
	assert.True(t, view.Days[2].IsToday)
}

func TestMonthCapsCellAtThreeEvents(t *testing.T) {
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		event("1", "2026-03-10", "09:00", "10:00", "1"),
		event("2", "2026-03-10", "10:00", "11:00", "1"),
		event("3", "2026-03-10", "11:00", "12:00", "1"),
		event("4", "2026-03-10", "12:00", "13:00", "1"),
		event("5", "2026-03-10", "13:00", "14:00", "1"),
	}

	view := Month(events, allSources(), ref, ref)

	var cell *MonthCell
	for _, week := range view.Weeks {
		for i := range week {
			if week[i].Date == "2026-03-10" {
				cell = &week[i]
			}
		}
	}
	require.NotNil(t, cell)
	assert.Len(t, cell.Events, MonthCellCap)
	assert.Equal(t, 2, cell.Overflow)
	assert.Equal(t, 5, cell.Total)
	assert.Equal(t, "1", cell.Events[0].ID, "inline events are the earliest three")
}

func TestMonthGridCoversWholeWeeks(t *testing.T) {
	// March 2026 starts on a Sunday and ends on a Tuesday.
	ref := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	view := Month(nil, allSources(), ref, ref)

	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, 3, view.Month)
	require.NotEmpty(t, view.Weeks)
	for _, week := range view.Weeks {
		assert.Len(t, week, 7)
	}
	first := view.Weeks[0][0]
	assert.Equal(t, "2026-03-01", first.Date)
	assert.True(t, first.InMonth)
	last := view.Weeks[len(view.Weeks)-1][6]
	assert.Equal(t, "2026-04-04", last.Date)
	assert.False(t, last.InMonth)
}

func TestSortOrdersByDateThenStartTime(t *testing.T) {
	events := []models.Event{
		event("1", "2026-03-11", "09:00", "10:00", "1"),
		event("2", "2026-03-10", "14:00", "15:00", "1"),
		event("3", "2026-03-10", "09:00", "09:30", "1"),
	}

	sortByStartTime(events)

	require.Len(t, events, 3)
	assert.Equal(t, "3", events[0].ID)
	assert.Equal(t, "2", events[1].ID)
	assert.Equal(t, "1", events[2].ID)
}
