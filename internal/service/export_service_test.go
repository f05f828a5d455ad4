package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/pkg/jobs"
)

type inlineQueue struct {
	svc *ExportService
}

// Enqueue runs the job synchronously so tests see the final status.
func (q *inlineQueue) Enqueue(job jobs.Job) error {
	return q.svc.Process(context.Background(), job)
}

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	calendar, _, _ := newCalendarFixture(t, seedMeeting("1"))
	analytics, _ := newAnalyticsFixture(t, nil)
	svc := NewExportService(calendar, analytics, "", nil, nil, fixedNow)
	svc.SetQueue(&inlineQueue{svc: svc})
	return svc
}

func TestAgendaCSVExport(t *testing.T) {
	svc := newExportFixture(t)

	status, err := svc.Request(context.Background(), dto.ExportRequest{Kind: "agenda", Format: "csv"})
	require.NoError(t, err)

	final, err := svc.Status(context.Background(), status.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, final.Status)
	assert.Equal(t, "agenda-2026-03-10.csv", final.Filename)

	filename, contentType, data, err := svc.Download(context.Background(), status.ID)
	require.NoError(t, err)
	assert.Equal(t, final.Filename, filename)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Date,Start,End,Title,Client,Type,Where\n")
	assert.Contains(t, string(data), "Quarterly Review")
}

func TestAnalyticsExportValidatesOptions(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Request(context.Background(), dto.ExportRequest{Kind: "analytics", Format: "ics", WindowDays: 30})
	assert.Error(t, err)

	_, err = svc.Request(context.Background(), dto.ExportRequest{Kind: "analytics", Format: "csv", WindowDays: 13})
	assert.Error(t, err)

	status, err := svc.Request(context.Background(), dto.ExportRequest{Kind: "analytics", Format: "csv", WindowDays: 30})
	require.NoError(t, err)
	final, err := svc.Status(context.Background(), status.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, final.Status)
}

func TestDownloadBeforeCompletionFails(t *testing.T) {
	calendar, _, _ := newCalendarFixture(t, seedMeeting("1"))
	analytics, _ := newAnalyticsFixture(t, nil)
	svc := NewExportService(calendar, analytics, "", nil, nil, fixedNow)
	svc.SetQueue(pendingQueue{})

	status, err := svc.Request(context.Background(), dto.ExportRequest{Kind: "agenda", Format: "pdf"})
	require.NoError(t, err)

	_, _, _, err = svc.Download(context.Background(), status.ID)
	assert.Error(t, err)
}

type pendingQueue struct{}

func (pendingQueue) Enqueue(jobs.Job) error { return nil }

func TestFeedRendersICS(t *testing.T) {
	svc := newExportFixture(t)

	data, err := svc.Feed(context.Background())
	require.NoError(t, err)
	feed := string(data)
	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Contains(t, feed, "SUMMARY:Quarterly Review")
	assert.Contains(t, feed, "1@firmdesk")
}
