package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

func TestAnalyzeRoundsPercentages(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := event("1", "2026-03-08", "09:00", "10:00", "1")
	b := event("2", "2026-03-09", "09:00", "10:00", "1")
	c := event("3", "2026-03-10", "09:00", "10:00", "1")
	c.Kind = models.EventKindInPerson

	report := Analyze([]models.Event{a, b, c}, allSources(), 30, now)

	assert.Equal(t, 3, report.TotalMeetings)
	assert.Equal(t, 2, report.VideoCount)
	assert.Equal(t, 1, report.InPersonCount)
	assert.Equal(t, 67, report.VideoPercentage)
	assert.Equal(t, 33, report.InPersonPercentage)
	assert.Equal(t, 0, report.CallPercentage)
}

func TestAnalyzeWindowExcludesOldAndFutureEvents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := event("old", "2026-01-01", "09:00", "10:00", "1")
	inWindow := event("in", "2026-03-05", "09:00", "10:00", "1")
	future := event("future", "2026-03-20", "09:00", "10:00", "1")

	report := Analyze([]models.Event{old, inWindow, future}, allSources(), 7, now)

	assert.Equal(t, 1, report.TotalMeetings)
	assert.Equal(t, 1, report.UpcomingCount, "future event still counts as upcoming")
	assert.Equal(t, 2, report.PastCount)
}

func TestAnalyzeMostActiveClientTieBreaksOnFirstSeen(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a1 := event("1", "2026-03-05", "09:00", "10:00", "1")
	b1 := event("2", "2026-03-06", "09:00", "10:00", "1")
	a2 := event("3", "2026-03-07", "09:00", "10:00", "1")
	b2 := event("4", "2026-03-08", "09:00", "10:00", "1")
	a1.ClientID, a1.ClientName = "A", "Alpha LLC"
	a2.ClientID, a2.ClientName = "A", "Alpha LLC"
	b1.ClientID, b1.ClientName = "B", "Beta Inc"
	b2.ClientID, b2.ClientName = "B", "Beta Inc"

	report := Analyze([]models.Event{a1, b1, a2, b2}, allSources(), 30, now)

	assert.Equal(t, 2, report.UniqueClients)
	require.NotNil(t, report.MostActiveClient)
	assert.Equal(t, "A", report.MostActiveClient.ClientID)
	assert.Equal(t, 2, report.MostActiveClient.Meetings)
}

func TestAnalyzeDurationTotals(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := event("1", "2026-03-08", "09:00", "10:30", "1")
	b := event("2", "2026-03-09", "14:00", "14:45", "1")

	report := Analyze([]models.Event{a, b}, allSources(), 7, now)

	assert.Equal(t, 135, report.TotalMinutes)
	assert.Equal(t, 2.3, report.TotalHours)
	assert.Equal(t, 2.0, report.AvgPerWeek)
}

func TestAnalyzeIgnoresDisabledSources(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := event("1", "2026-03-08", "09:00", "10:00", "1")
	b := event("2", "2026-03-09", "09:00", "10:00", "2")

	report := Analyze([]models.Event{a, b}, map[string]struct{}{"1": {}}, 7, now)

	assert.Equal(t, 1, report.TotalMeetings)
	assert.Equal(t, 1, report.UniqueClients)
}

func TestAnalyzeEmptyWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	report := Analyze(nil, allSources(), 30, now)

	assert.Equal(t, 0, report.TotalMeetings)
	assert.Equal(t, 0, report.VideoPercentage)
	assert.Nil(t, report.MostActiveClient)
	assert.Equal(t, 0.0, report.AvgPerWeek)
}
