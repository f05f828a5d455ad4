package dto

import "time"

// ExportRequest queues an agenda or analytics export.
type ExportRequest struct {
	// Kind is "agenda" or "analytics".
	Kind string `json:"kind" validate:"required,oneof=agenda analytics"`
	// Format is csv, pdf or ics; analytics supports csv and pdf only.
	Format string `json:"format" validate:"required,oneof=csv pdf ics"`

	// Agenda options.
	Search string `json:"search,omitempty"`
	Range  string `json:"range,omitempty"`

	// Analytics options.
	WindowDays int `json:"window_days,omitempty"`
}

// ExportStatus reports the lifecycle of a queued export.
type ExportStatus struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Filename    string     `json:"filename,omitempty"`
	Error       string     `json:"error,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
