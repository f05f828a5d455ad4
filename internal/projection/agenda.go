package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// AgendaRange selects the date window of the agenda list relative to "now".
type AgendaRange string

const (
	AgendaRangeUpcoming AgendaRange = "upcoming"
	AgendaRangeToday    AgendaRange = "today"
	AgendaRangeWeek     AgendaRange = "next-7-days"
	AgendaRangeMonth    AgendaRange = "next-30-days"
	AgendaRangePast     AgendaRange = "past"
)

// ValidAgendaRange reports whether the raw value names a known range.
func ValidAgendaRange(raw string) bool {
	switch AgendaRange(raw) {
	case AgendaRangeUpcoming, AgendaRangeToday, AgendaRangeWeek, AgendaRangeMonth, AgendaRangePast:
		return true
	default:
		return false
	}
}

// AgendaFilter narrows the agenda list. Search is a case-insensitive
// substring match over title, client name and description.
type AgendaFilter struct {
	Search string
	Kind   *models.EventKind
	Range  AgendaRange
}

// AgendaGroup holds one date's events in start-time order.
type AgendaGroup struct {
	Date   string         `json:"date"`
	Events []models.Event `json:"events"`
}

// Agenda filters the visible events by search text, kind and date range,
// sorts them ascending by (date, startTime) and groups them by date.
func Agenda(events []models.Event, enabledSources map[string]struct{}, filter AgendaFilter, now time.Time) []AgendaGroup {
	visible := Visible(events, enabledSources)

	today := now.Format(DateLayout)
	weekEnd := now.AddDate(0, 0, 7).Format(DateLayout)
	monthEnd := now.AddDate(0, 0, 30).Format(DateLayout)
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]models.Event, 0, len(visible))
	for _, event := range visible {
		if needle != "" && !matchesSearch(event, needle) {
			continue
		}
		if filter.Kind != nil && event.Kind != *filter.Kind {
			continue
		}
		if !matchesRange(event.Date, filter.Range, today, weekEnd, monthEnd) {
			continue
		}
		matched = append(matched, event)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].StartTime < matched[j].StartTime
	})

	groups := make([]AgendaGroup, 0)
	for _, event := range matched {
		if len(groups) == 0 || groups[len(groups)-1].Date != event.Date {
			groups = append(groups, AgendaGroup{Date: event.Date})
		}
		groups[len(groups)-1].Events = append(groups[len(groups)-1].Events, event)
	}
	return groups
}

func matchesSearch(event models.Event, needle string) bool {
	return strings.Contains(strings.ToLower(event.Title), needle) ||
		strings.Contains(strings.ToLower(event.ClientName), needle) ||
		strings.Contains(strings.ToLower(event.Description), needle)
}

// Date strings are YYYY-MM-DD, so plain string comparison is chronological.
func matchesRange(date string, rng AgendaRange, today, weekEnd, monthEnd string) bool {
	switch rng {
	case AgendaRangeToday:
		return date == today
	case AgendaRangeWeek:
		return date >= today && date <= weekEnd
	case AgendaRangeMonth:
		return date >= today && date <= monthEnd
	case AgendaRangePast:
		return date < today
	case AgendaRangeUpcoming, "":
		return date >= today
	default:
		return true
	}
}
