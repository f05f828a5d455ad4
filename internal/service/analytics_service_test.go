package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/store"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

type fakeCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.gets++
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func newAnalyticsFixture(t *testing.T, cache analyticsCache) (*AnalyticsService, *store.EventStore) {
	t.Helper()
	events := store.NewEventStore(nil, nil)
	require.NoError(t, events.Load(context.Background(), []models.Event{seedMeeting("1")}))
	sources := store.NewSourceRegistry(store.SeedSources())
	svc := NewAnalyticsService(events, sources, cache, time.Minute, nil, fixedNow)
	return svc, events
}

func TestReportCachesPerStoreVersion(t *testing.T) {
	cache := newFakeCache()
	svc, events := newAnalyticsFixture(t, cache)

	first, hit, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, first.TotalMeetings)

	second, hit, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)

	// A mutation bumps the store version, so the next read recomputes.
	require.NoError(t, events.Add(seedMeeting("2")))
	third, hit, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, third.TotalMeetings)
}

func TestReportRejectsUnknownWindow(t *testing.T) {
	svc, _ := newAnalyticsFixture(t, nil)

	_, _, err := svc.Report(context.Background(), 13)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportWorksWithoutCache(t *testing.T) {
	svc, _ := newAnalyticsFixture(t, nil)

	report, hit, err := svc.Report(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, report.TotalMeetings)
}
