package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/store"
)

type fakeInvalidator struct {
	patterns []string
}

func (f *fakeInvalidator) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func newSourceFixture(t *testing.T) (*SourceService, *fakeInvalidator, *store.SourceRegistry) {
	t.Helper()
	registry := store.NewSourceRegistry(store.SeedSources())
	invalidator := &fakeInvalidator{}
	svc := NewSourceService(registry, invalidator, nil, nil)
	return svc, invalidator, registry
}

func TestToggleInvalidatesAnalyticsCache(t *testing.T) {
	svc, invalidator, _ := newSourceFixture(t)

	source, err := svc.Toggle(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, source.Enabled)
	require.Len(t, invalidator.patterns, 1)
	assert.Equal(t, "analytics:*", invalidator.patterns[0])
}

func TestSetColorLeavesAnalyticsCacheAlone(t *testing.T) {
	svc, invalidator, _ := newSourceFixture(t)

	source, err := svc.SetColor(context.Background(), "2", dto.SetSourceColorRequest{Color: "#ff8800"})
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", source.Color)
	assert.Empty(t, invalidator.patterns)
}

func TestConnectRejectsInternalProvider(t *testing.T) {
	svc, _, _ := newSourceFixture(t)

	_, err := svc.Connect(context.Background(), dto.ConnectSourceRequest{Provider: "internal"})
	require.Error(t, err)
}

func TestConnectAddsEnabledGoogleSource(t *testing.T) {
	svc, invalidator, registry := newSourceFixture(t)

	source, err := svc.Connect(context.Background(), dto.ConnectSourceRequest{
		Provider:     "google",
		AccountEmail: "partner@firm.example",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceProviderGoogle, source.Provider)
	assert.True(t, source.Enabled)
	assert.True(t, source.Connected)

	_, ok := registry.Get(source.ID)
	assert.True(t, ok)
	assert.Len(t, invalidator.patterns, 1)
}

func TestDisconnectRefusesFirmCalendar(t *testing.T) {
	svc, invalidator, _ := newSourceFixture(t)

	_, err := svc.Disconnect(context.Background(), "3")
	require.Error(t, err)
	assert.Empty(t, invalidator.patterns)
}

func TestDisconnectRemovesExternalSource(t *testing.T) {
	svc, _, registry := newSourceFixture(t)

	_, err := svc.Disconnect(context.Background(), "2")
	require.NoError(t, err)
	_, ok := registry.Get("2")
	assert.False(t, ok)
}
