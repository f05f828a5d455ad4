package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSRenderIncludesCoreProperties(t *testing.T) {
	e := NewICSExporter("")
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	data, err := e.Render([]ICSEvent{{
		UID:       "1@firmdesk",
		Summary:   "Quarterly Review",
		Start:     start,
		End:       start.Add(time.Hour),
		Location:  "Conference Room A",
		Attendees: []string{"sarah@firm.com"},
	}})
	require.NoError(t, err)

	feed := string(data)
	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.Contains(t, feed, "UID:1@firmdesk")
	assert.Contains(t, feed, "SUMMARY:Quarterly Review")
	assert.Contains(t, feed, "LOCATION:Conference Room A")
	assert.Contains(t, feed, "END:VCALENDAR")
}

func TestICSRenderRequiresUID(t *testing.T) {
	e := NewICSExporter("")
	_, err := e.Render([]ICSEvent{{Summary: "No UID"}})
	require.Error(t, err)
}
