package dto

// CreateEventRequest is the schedule-dialog payload.
type CreateEventRequest struct {
	Title         string   `json:"title" validate:"required"`
	ClientID      string   `json:"client_id" validate:"required"`
	ClientName    string   `json:"client_name" validate:"required"`
	Date          string   `json:"date" validate:"required,datecalendar"`
	StartTime     string   `json:"start_time" validate:"required,timeofday"`
	EndTime       string   `json:"end_time" validate:"required,timeofday"`
	Kind          string   `json:"kind" validate:"required,eventkind"`
	VideoProvider *string  `json:"video_provider,omitempty"`
	MeetingLink   *string  `json:"meeting_link,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Attendees     []string `json:"attendees" validate:"dive,email"`
	Description   string   `json:"description,omitempty"`
	SourceID      string   `json:"source_id" validate:"required"`
}

// UpdateEventRequest is the edit-dialog payload; omitted fields are left as-is.
type UpdateEventRequest struct {
	Title         *string  `json:"title,omitempty"`
	ClientID      *string  `json:"client_id,omitempty"`
	ClientName    *string  `json:"client_name,omitempty"`
	Date          *string  `json:"date,omitempty" validate:"omitempty,datecalendar"`
	StartTime     *string  `json:"start_time,omitempty" validate:"omitempty,timeofday"`
	EndTime       *string  `json:"end_time,omitempty" validate:"omitempty,timeofday"`
	Kind          *string  `json:"kind,omitempty" validate:"omitempty,eventkind"`
	VideoProvider *string  `json:"video_provider,omitempty"`
	MeetingLink   *string  `json:"meeting_link,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Attendees     []string `json:"attendees,omitempty" validate:"omitempty,dive,email"`
	Description   *string  `json:"description,omitempty"`
	SourceID      *string  `json:"source_id,omitempty"`
}

// RescheduleRequest moves an event to a new date and, when the drop target is
// an hour slot, a new start time. Month-cell drops omit StartTime and keep
// the original.
type RescheduleRequest struct {
	Date      string  `json:"date" validate:"required,datecalendar"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,timeofday"`
}

// ConnectSourceRequest adds a placeholder external calendar.
type ConnectSourceRequest struct {
	Provider     string `json:"provider" validate:"required"`
	AccountEmail string `json:"account_email,omitempty" validate:"omitempty,email"`
}

// SetSourceColorRequest updates a source's display color.
type SetSourceColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}
