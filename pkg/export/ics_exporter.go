package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ICSEvent is the subset of a meeting the calendar feed carries.
type ICSEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
	URL         string
}

// ICSExporter serializes meetings into an iCalendar feed that external
// calendar clients can subscribe to.
type ICSExporter struct {
	prodID string
}

// NewICSExporter constructs an ICS exporter with the given product id.
func NewICSExporter(prodID string) *ICSExporter {
	if prodID == "" {
		prodID = "-//FirmDesk//Scheduling//EN"
	}
	return &ICSExporter{prodID: prodID}
}

// Render produces an iCalendar document containing the provided events.
func (e *ICSExporter) Render(events []ICSEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.prodID)

	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event missing uid")
		}
		item := cal.AddEvent(ev.UID)
		item.SetDtStampTime(time.Now().UTC())
		item.SetStartAt(ev.Start)
		item.SetEndAt(ev.End)
		item.SetSummary(ev.Summary)
		if ev.Description != "" {
			item.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			item.SetLocation(ev.Location)
		}
		if ev.URL != "" {
			item.SetURL(ev.URL)
		}
		for _, attendee := range ev.Attendees {
			item.AddAttendee(attendee)
		}
	}

	return []byte(cal.Serialize()), nil
}
