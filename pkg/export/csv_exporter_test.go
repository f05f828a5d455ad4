package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderKeepsColumnOrder(t *testing.T) {
	e := NewCSVExporter()

	data, err := e.Render(Dataset{
		Headers: []string{"Date", "Start", "Title"},
		Rows: [][]string{
			{"2026-03-10", "10:00", "Quarterly Review"},
			{"2026-03-11", "09:00", "Onboarding Call"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Date,Start,Title\n2026-03-10,10:00,Quarterly Review\n2026-03-11,09:00,Onboarding Call\n", string(data))
}

func TestCSVRenderRejectsRaggedRow(t *testing.T) {
	e := NewCSVExporter()

	_, err := e.Render(Dataset{
		Headers: []string{"Metric", "Value"},
		Rows:    [][]string{{"Total meetings"}},
	})
	require.Error(t, err)
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	e := NewCSVExporter()
	_, err := e.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	e := NewPDFExporter()

	data, err := e.Render(Dataset{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total meetings", "12"},
			{"Total hours", "9.5"},
		},
	}, "Meeting Analytics")
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
