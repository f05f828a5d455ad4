package models

import "strings"

// EventKind enumerates the supported meeting formats.
type EventKind string

const (
	EventKindVideo    EventKind = "video"
	EventKindInPerson EventKind = "in-person"
	EventKindCall     EventKind = "call"
	EventKindEmail    EventKind = "email"
)

// VideoProvider enumerates the supported conferencing platforms.
type VideoProvider string

const (
	VideoProviderGoogleMeet VideoProvider = "google-meet"
	VideoProviderZoom       VideoProvider = "zoom"
)

// ExternalEventIDPrefix marks events that were created outside the scheduling
// dialogs (e.g. promoted from an email) and therefore live in the snapshot
// mirror as well as in memory.
const ExternalEventIDPrefix = "email-event-"

// Event is a scheduled meeting. Date is a calendar day (YYYY-MM-DD) and the
// times are 24-hour HH:MM strings, both timezone-naive; the lexicographic
// order of those strings is the chronological order the projections rely on.
type Event struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	ClientID      string         `json:"client_id"`
	ClientName    string         `json:"client_name"`
	Date          string         `json:"date"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	Kind          EventKind      `json:"kind"`
	VideoProvider *VideoProvider `json:"video_provider,omitempty"`
	MeetingLink   *string        `json:"meeting_link,omitempty"`
	Location      *string        `json:"location,omitempty"`
	Attendees     []string       `json:"attendees"`
	Description   string         `json:"description,omitempty"`
	SourceID      string         `json:"source_id"`
}

// IsExternal reports whether the event originated outside the dialogs.
func (e Event) IsExternal() bool {
	return strings.HasPrefix(e.ID, ExternalEventIDPrefix)
}

// EventPatch carries a partial update; nil fields are left untouched.
type EventPatch struct {
	Title         *string        `json:"title,omitempty"`
	ClientID      *string        `json:"client_id,omitempty"`
	ClientName    *string        `json:"client_name,omitempty"`
	Date          *string        `json:"date,omitempty"`
	StartTime     *string        `json:"start_time,omitempty"`
	EndTime       *string        `json:"end_time,omitempty"`
	Kind          *EventKind     `json:"kind,omitempty"`
	VideoProvider *VideoProvider `json:"video_provider,omitempty"`
	MeetingLink   *string        `json:"meeting_link,omitempty"`
	Location      *string        `json:"location,omitempty"`
	Attendees     []string       `json:"attendees,omitempty"`
	Description   *string        `json:"description,omitempty"`
	SourceID      *string        `json:"source_id,omitempty"`
}

// Apply copies the non-nil patch fields onto the event.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.ClientID != nil {
		e.ClientID = *p.ClientID
	}
	if p.ClientName != nil {
		e.ClientName = *p.ClientName
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.VideoProvider != nil {
		e.VideoProvider = p.VideoProvider
	}
	if p.MeetingLink != nil {
		e.MeetingLink = p.MeetingLink
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.Attendees != nil {
		e.Attendees = p.Attendees
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.SourceID != nil {
		e.SourceID = *p.SourceID
	}
}

// ValidEventKind reports whether the raw value names a known kind.
func ValidEventKind(raw string) bool {
	switch EventKind(raw) {
	case EventKindVideo, EventKindInPerson, EventKindCall, EventKindEmail:
		return true
	default:
		return false
	}
}
