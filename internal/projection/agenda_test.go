package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

func agendaFixture() []models.Event {
	past := event("past", "2026-03-01", "09:00", "10:00", "1")
	today1 := event("today1", "2026-03-10", "14:00", "15:00", "1")
	today2 := event("today2", "2026-03-10", "09:00", "10:00", "1")
	nextWeek := event("week", "2026-03-15", "11:00", "12:00", "1")
	nextMonth := event("month", "2026-04-05", "11:00", "12:00", "1")
	later := event("later", "2026-06-01", "11:00", "12:00", "1")

	today1.Title = "Tax strategy session"
	today1.Kind = models.EventKindInPerson
	today2.ClientName = "Acme Holdings"
	return []models.Event{past, today1, today2, nextWeek, nextMonth, later}
}

func agendaNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestAgendaDefaultsToUpcoming(t *testing.T) {
	groups := Agenda(agendaFixture(), allSources(), AgendaFilter{}, agendaNow())

	require.Len(t, groups, 4)
	assert.Equal(t, "2026-03-10", groups[0].Date)
	require.Len(t, groups[0].Events, 2)
	assert.Equal(t, "today2", groups[0].Events[0].ID, "same-day events sort by start time")
	assert.Equal(t, "2026-06-01", groups[3].Date)
}

func TestAgendaRanges(t *testing.T) {
	fixture := agendaFixture()
	now := agendaNow()

	groups := Agenda(fixture, allSources(), AgendaFilter{Range: AgendaRangeToday}, now)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Events, 2)

	groups = Agenda(fixture, allSources(), AgendaFilter{Range: AgendaRangeWeek}, now)
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-03-15", groups[1].Date)

	groups = Agenda(fixture, allSources(), AgendaFilter{Range: AgendaRangeMonth}, now)
	require.Len(t, groups, 3)

	groups = Agenda(fixture, allSources(), AgendaFilter{Range: AgendaRangePast}, now)
	require.Len(t, groups, 1)
	assert.Equal(t, "2026-03-01", groups[0].Date)
}

func TestAgendaSearchIsCaseInsensitive(t *testing.T) {
	groups := Agenda(agendaFixture(), allSources(), AgendaFilter{Search: "TAX"}, agendaNow())
	require.Len(t, groups, 1)
	assert.Equal(t, "today1", groups[0].Events[0].ID)

	groups = Agenda(agendaFixture(), allSources(), AgendaFilter{Search: "acme"}, agendaNow())
	require.Len(t, groups, 1)
	assert.Equal(t, "today2", groups[0].Events[0].ID)

	groups = Agenda(agendaFixture(), allSources(), AgendaFilter{Search: "no such meeting"}, agendaNow())
	assert.Empty(t, groups)
}

func TestAgendaKindFilter(t *testing.T) {
	kind := models.EventKindInPerson
	groups := Agenda(agendaFixture(), allSources(), AgendaFilter{Kind: &kind}, agendaNow())
	require.Len(t, groups, 1)
	assert.Equal(t, "today1", groups[0].Events[0].ID)
}

func TestAgendaIsIdempotent(t *testing.T) {
	fixture := agendaFixture()
	first := Agenda(fixture, allSources(), AgendaFilter{}, agendaNow())
	second := Agenda(fixture, allSources(), AgendaFilter{}, agendaNow())
	assert.Equal(t, first, second)
}
