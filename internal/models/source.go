package models

// SourceProvider identifies where a calendar source lives.
type SourceProvider string

const (
	SourceProviderInternal  SourceProvider = "internal"
	SourceProviderGoogle    SourceProvider = "google"
	SourceProviderMicrosoft SourceProvider = "microsoft"
)

// CalendarSource is a named, colored, toggleable grouping of events. It is a
// pure display filter: disabling a source hides its events from every
// projection without touching the events themselves.
type CalendarSource struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Provider     SourceProvider `json:"provider"`
	Color        string         `json:"color"`
	Enabled      bool           `json:"enabled"`
	Connected    bool           `json:"connected,omitempty"`
	AccountEmail string         `json:"account_email,omitempty"`
}

// ValidSourceProvider reports whether the raw value names a known provider.
func ValidSourceProvider(raw string) bool {
	switch SourceProvider(raw) {
	case SourceProviderInternal, SourceProviderGoogle, SourceProviderMicrosoft:
		return true
	default:
		return false
	}
}
