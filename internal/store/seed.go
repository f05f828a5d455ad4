package store

import (
	"time"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

func strPtr(s string) *string { return &s }

func providerPtr(p models.VideoProvider) *models.VideoProvider { return &p }

// SeedSources returns the built-in calendar sources every deployment starts
// with: two connected provider calendars and the internal firm calendar.
func SeedSources() []models.CalendarSource {
	return []models.CalendarSource{
		{ID: "1", Name: "Work Calendar", Provider: models.SourceProviderGoogle, Color: "#7c3aed", Enabled: true, Connected: true, AccountEmail: "you@company.com"},
		{ID: "2", Name: "Personal Calendar", Provider: models.SourceProviderGoogle, Color: "#2563eb", Enabled: true, Connected: true, AccountEmail: "you@gmail.com"},
		{ID: "3", Name: "Firm Calendar", Provider: models.SourceProviderInternal, Color: "#059669", Enabled: true},
	}
}

// SeedEvents returns the built-in demo meetings, anchored to the provided
// day so day/week views always have content near "today".
func SeedEvents(today time.Time) []models.Event {
	day := today.Format("2006-01-02")
	tomorrow := today.AddDate(0, 0, 1).Format("2006-01-02")
	return []models.Event{
		{
			ID:            "1",
			Title:         "Q4 Tax Planning Review",
			ClientID:      "1",
			ClientName:    "Troy Business Services LLC",
			Date:          day,
			StartTime:     "10:00",
			EndTime:       "11:00",
			Kind:          models.EventKindVideo,
			VideoProvider: providerPtr(models.VideoProviderGoogleMeet),
			MeetingLink:   strPtr("https://meet.google.com/abc-defg-hij"),
			Attendees:     []string{"sarah@firm.com", "gokhan@troy.com"},
			Description:   "Discuss Q4 tax strategy and year-end planning",
			SourceID:      "1",
		},
		{
			ID:          "2",
			Title:       "Year-End Financial Review",
			ClientID:    "3",
			ClientName:  "Best Face Forward",
			Date:        day,
			StartTime:   "14:00",
			EndTime:     "15:30",
			Kind:        models.EventKindInPerson,
			Location:    strPtr("Main Office Conference Room A, 123 Business St, Suite 100"),
			Attendees:   []string{"mike@firm.com", "jamal@bestface.com"},
			Description: "Review annual financials and discuss next steps",
			SourceID:    "1",
		},
		{
			ID:         "3",
			Title:      "Client Onboarding Call",
			ClientID:   "11",
			ClientName: "John & Mary Smith",
			Date:       tomorrow,
			StartTime:  "09:00",
			EndTime:    "09:30",
			Kind:       models.EventKindCall,
			Attendees:  []string{"sarah@firm.com", "john@smithfamily.com"},
			SourceID:   "1",
		},
	}
}
