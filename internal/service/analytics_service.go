package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/projection"
	"github.com/firmdesk/firmdesk-api/internal/store"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

type analyticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AnalyticsService computes the meeting analytics report for one of the
// supported trailing windows. Results are cached per store version, so any
// event mutation implicitly invalidates them.
type AnalyticsService struct {
	events  *store.EventStore
	sources *store.SourceRegistry
	cache   analyticsCache
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewAnalyticsService(events *store.EventStore, sources *store.SourceRegistry, cache analyticsCache, ttl time.Duration, logger *zap.Logger, now func() time.Time) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{events: events, sources: sources, cache: cache, ttl: ttl, logger: logger, now: now}
}

// Report returns the analytics for the given window. The second return value
// reports whether the result came from cache.
func (s *AnalyticsService) Report(ctx context.Context, windowDays int) (projection.Analytics, bool, error) {
	if !projection.ValidAnalyticsWindow(windowDays) {
		return projection.Analytics{}, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported window: %d days", windowDays))
	}

	key := fmt.Sprintf("analytics:v%d:window:%d", s.events.Version(), windowDays)
	if s.cache != nil {
		var cached projection.Analytics
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	report := projection.Analyze(s.events.All(), s.sources.EnabledIDs(), windowDays, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, false, nil
}
