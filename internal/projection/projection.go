// Package projection contains the pure read-side transformations of the
// event list: day/week/month grids, the searchable agenda, and the trailing
// window analytics. Nothing in here mutates state; every function depends
// only on its inputs, so callers may re-run projections freely.
package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// DateLayout is the calendar-day format used across the scheduling core.
const DateLayout = "2006-01-02"

// Visible filters out events whose source is disabled or unknown. The drop is
// silent: the events stay in the store and reappear when the source is
// re-enabled.
func Visible(events []models.Event, enabledSources map[string]struct{}) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if _, ok := enabledSources[event.SourceID]; ok {
			out = append(out, event)
		}
	}
	return out
}

// MinutesOfDay parses an HH:MM string into minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight back into HH:MM. Values
// outside a single day are the caller's validation problem.
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// HourOf returns the hour component of an HH:MM string, or -1 when it cannot
// be parsed.
func HourOf(hhmm string) int {
	minutes, err := MinutesOfDay(hhmm)
	if err != nil {
		return -1
	}
	return minutes / 60
}

// Duration returns the length of the event in minutes. Same-day,
// non-wrapping times are assumed; malformed times yield zero.
func Duration(event models.Event) int {
	start, err := MinutesOfDay(event.StartTime)
	if err != nil {
		return 0
	}
	end, err := MinutesOfDay(event.EndTime)
	if err != nil {
		return 0
	}
	return end - start
}

func sortByStartTime(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}

func sameDay(date string, day time.Time) bool {
	return date == day.Format(DateLayout)
}

// WeekStart returns the Sunday that opens the week containing the reference.
func WeekStart(reference time.Time) time.Time {
	return reference.AddDate(0, 0, -int(reference.Weekday()))
}
