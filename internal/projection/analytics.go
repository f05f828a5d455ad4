package projection

import (
	"math"
	"time"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// AnalyticsWindows lists the supported trailing windows in days.
var AnalyticsWindows = []int{7, 30, 90, 365}

// ValidAnalyticsWindow reports whether the day count is a supported window.
func ValidAnalyticsWindow(days int) bool {
	for _, w := range AnalyticsWindows {
		if w == days {
			return true
		}
	}
	return false
}

// ClientActivity pairs a client with the number of meetings in the window.
type ClientActivity struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Meetings   int    `json:"meetings"`
}

// Analytics aggregates the trailing window. Counts cover events inside the
// window; Upcoming/Past look at the whole list relative to today.
type Analytics struct {
	WindowDays int `json:"window_days"`

	TotalMeetings int `json:"total_meetings"`

	VideoCount    int `json:"video_count"`
	InPersonCount int `json:"in_person_count"`
	CallCount     int `json:"call_count"`
	EmailCount    int `json:"email_count"`

	VideoPercentage    int `json:"video_percentage"`
	InPersonPercentage int `json:"in_person_percentage"`
	CallPercentage     int `json:"call_percentage"`

	UniqueClients    int             `json:"unique_clients"`
	MostActiveClient *ClientActivity `json:"most_active_client,omitempty"`

	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	AvgPerWeek   float64 `json:"avg_per_week"`

	UpcomingCount int `json:"upcoming_count"`
	PastCount     int `json:"past_count"`
}

// Analyze computes aggregates over the trailing windowDays ending today.
// Duration math assumes same-day, non-wrapping times; the write side
// enforces that before events ever reach the store.
func Analyze(events []models.Event, enabledSources map[string]struct{}, windowDays int, now time.Time) Analytics {
	visible := Visible(events, enabledSources)

	today := now.Format(DateLayout)
	windowStart := now.AddDate(0, 0, -windowDays).Format(DateLayout)

	result := Analytics{WindowDays: windowDays}

	type clientKey struct{ id, name string }
	counts := make(map[clientKey]int)
	order := make([]clientKey, 0)

	for _, event := range visible {
		if event.Date >= today {
			result.UpcomingCount++
		} else {
			result.PastCount++
		}

		if event.Date < windowStart || event.Date > today {
			continue
		}

		result.TotalMeetings++
		switch event.Kind {
		case models.EventKindVideo:
			result.VideoCount++
		case models.EventKindInPerson:
			result.InPersonCount++
		case models.EventKindCall:
			result.CallCount++
		case models.EventKindEmail:
			result.EmailCount++
		}
		result.TotalMinutes += Duration(event)

		key := clientKey{id: event.ClientID, name: event.ClientName}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	if result.TotalMeetings > 0 {
		result.VideoPercentage = roundPct(result.VideoCount, result.TotalMeetings)
		result.InPersonPercentage = roundPct(result.InPersonCount, result.TotalMeetings)
		result.CallPercentage = roundPct(result.CallCount, result.TotalMeetings)
	}

	result.UniqueClients = len(counts)

	// Ties break toward the first-encountered client.
	best := -1
	for _, key := range order {
		if counts[key] > best {
			best = counts[key]
			result.MostActiveClient = &ClientActivity{ClientID: key.id, ClientName: key.name, Meetings: counts[key]}
		}
	}

	result.TotalHours = math.Round(float64(result.TotalMinutes)/60*10) / 10
	result.AvgPerWeek = math.Round(float64(result.TotalMeetings)/float64(windowDays)*7*10) / 10

	return result
}

func roundPct(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
