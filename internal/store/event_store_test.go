package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

type fakeSnapshots struct {
	events  []models.Event
	loadErr error
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeSnapshots) Load(ctx context.Context) ([]models.Event, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.events, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, event models.Event) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, event.ID)
	return nil
}

func (f *fakeSnapshots) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func meeting(id, title string) models.Event {
	return models.Event{
		ID:         id,
		Title:      title,
		ClientID:   "c1",
		ClientName: "Acme Corp",
		Date:       "2026-03-10",
		StartTime:  "09:00",
		EndTime:    "10:00",
		Kind:       models.EventKindVideo,
		SourceID:   "1",
	}
}

func TestLoadMergesSnapshotWithoutDuplicates(t *testing.T) {
	snapshots := &fakeSnapshots{events: []models.Event{
		meeting("1", "stale copy"),
		meeting("email-event-7", "follow up"),
	}}
	s := NewEventStore(snapshots, nil)

	seed := []models.Event{meeting("1", "quarterly review"), meeting("2", "tax planning")}
	require.NoError(t, s.Load(context.Background(), seed))

	assert.Equal(t, 3, s.Len())
	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "quarterly review", got.Title, "seed entry should win over the snapshot copy")
	_, ok = s.Get("email-event-7")
	assert.True(t, ok)
}

func TestLoadSurvivesSnapshotFailure(t *testing.T) {
	snapshots := &fakeSnapshots{loadErr: errors.New("redis down")}
	s := NewEventStore(snapshots, nil)

	require.NoError(t, s.Load(context.Background(), []models.Event{meeting("1", "intro call")}))
	assert.Equal(t, 1, s.Len())
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := NewEventStore(nil, nil)
	require.NoError(t, s.Add(meeting("1", "kickoff")))

	err := s.Add(meeting("1", "kickoff again"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, s.Len())
}

func TestIngestIsFirstWriteWins(t *testing.T) {
	s := NewEventStore(nil, nil)

	assert.True(t, s.Ingest(meeting("email-event-1", "original")))
	assert.False(t, s.Ingest(meeting("email-event-1", "replay")))

	got, ok := s.Get("email-event-1")
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, 1, s.Len())
}

func TestFlushSnapshotPersistsExternalEvents(t *testing.T) {
	snapshots := &fakeSnapshots{}
	s := NewEventStore(snapshots, nil)

	s.Ingest(meeting("email-event-1", "promoted from inbox"))
	s.Ingest(meeting("abc", "regular meeting"))

	require.NoError(t, s.FlushSnapshot(context.Background()))
	assert.Equal(t, []string{"email-event-1"}, snapshots.saved)

	// A clean second run has nothing left to write.
	snapshots.saved = nil
	require.NoError(t, s.FlushSnapshot(context.Background()))
	assert.Empty(t, snapshots.saved)
}

func TestFlushSnapshotKeepsFailedEntriesDirty(t *testing.T) {
	snapshots := &fakeSnapshots{saveErr: errors.New("redis down")}
	s := NewEventStore(snapshots, nil)
	s.Ingest(meeting("email-event-1", "promoted from inbox"))

	require.Error(t, s.FlushSnapshot(context.Background()))

	snapshots.saveErr = nil
	require.NoError(t, s.FlushSnapshot(context.Background()))
	assert.Equal(t, []string{"email-event-1"}, snapshots.saved)
}

func TestRemoveScrubsExternalSnapshotEntry(t *testing.T) {
	snapshots := &fakeSnapshots{}
	s := NewEventStore(snapshots, nil)
	s.Ingest(meeting("email-event-9", "follow up"))
	require.NoError(t, s.Add(meeting("2", "planning")))

	require.NoError(t, s.Remove(context.Background(), "email-event-9"))
	assert.Equal(t, []string{"email-event-9"}, snapshots.deleted)

	require.NoError(t, s.Remove(context.Background(), "2"))
	assert.Equal(t, []string{"email-event-9"}, snapshots.deleted, "internal events never touch the snapshot")
	assert.Equal(t, 0, s.Len())
}

func TestUpdatePatchesInPlace(t *testing.T) {
	s := NewEventStore(nil, nil)
	require.NoError(t, s.Add(meeting("1", "kickoff")))

	title := "kickoff (rescheduled)"
	start := "11:00"
	updated, err := s.Update("1", models.EventPatch{Title: &title, StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, "kickoff (rescheduled)", updated.Title)
	assert.Equal(t, "11:00", updated.StartTime)
	assert.Equal(t, "10:00", updated.EndTime, "unpatched fields stay put")

	_, err = s.Update("missing", models.EventPatch{Title: &title})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestVersionBumpsOnMutation(t *testing.T) {
	s := NewEventStore(nil, nil)
	before := s.Version()
	require.NoError(t, s.Add(meeting("1", "kickoff")))
	assert.Greater(t, s.Version(), before)
}

func TestRunConsumesUntilCancelled(t *testing.T) {
	s := NewEventStore(nil, nil)
	incoming := make(chan models.Event, 2)
	incoming <- meeting("email-event-1", "from the bus")
	incoming <- meeting("email-event-1", "duplicate replay")
	close(incoming)

	var outcomes []bool
	s.Run(context.Background(), incoming, func(_ models.Event, accepted bool) {
		outcomes = append(outcomes, accepted)
	})

	assert.Equal(t, []bool{true, false}, outcomes)
	assert.Equal(t, 1, s.Len())
}
