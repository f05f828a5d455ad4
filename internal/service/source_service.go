package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/store"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SourceService manages the calendar source registry behind the sidebar
// toggles and the connect/disconnect settings panel.
type SourceService struct {
	sources   *store.SourceRegistry
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewSourceService(sources *store.SourceRegistry, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SourceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SourceService{sources: sources, cache: cache, validator: validate, logger: logger}
}

// Changing which sources are enabled changes what analytics sees, so cached
// reports for the current store version must go.
func (s *SourceService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "analytics:*"); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}

// List returns every registered source, enabled or not.
func (s *SourceService) List(ctx context.Context) []models.CalendarSource {
	return s.sources.All()
}

// Toggle flips a source's visibility without touching its connection state.
func (s *SourceService) Toggle(ctx context.Context, id string) (models.CalendarSource, error) {
	source, err := s.sources.Toggle(id)
	if err != nil {
		return models.CalendarSource{}, err
	}
	s.invalidateAnalytics(ctx)
	s.logger.Info("calendar source toggled",
		zap.String("source_id", source.ID),
		zap.Bool("enabled", source.Enabled))
	return source, nil
}

// SetColor updates the display color used by the event pills.
func (s *SourceService) SetColor(ctx context.Context, id string, req dto.SetSourceColorRequest) (models.CalendarSource, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CalendarSource{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid color payload")
	}
	return s.sources.SetColor(id, req.Color)
}

// Connect registers a placeholder external account. No OAuth handshake is
// performed; the source starts connected and enabled.
func (s *SourceService) Connect(ctx context.Context, req dto.ConnectSourceRequest) (models.CalendarSource, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CalendarSource{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid connect payload")
	}
	provider := models.SourceProvider(req.Provider)
	if !models.ValidSourceProvider(string(provider)) || provider == models.SourceProviderInternal {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrValidation, "provider must be google or microsoft")
	}
	source, err := s.sources.Connect(provider, req.AccountEmail)
	if err != nil {
		return models.CalendarSource{}, err
	}
	s.invalidateAnalytics(ctx)
	s.logger.Info("calendar source connected",
		zap.String("source_id", source.ID),
		zap.String("provider", string(source.Provider)))
	return source, nil
}

// Disconnect removes an external source. The built-in firm calendar cannot be
// disconnected.
func (s *SourceService) Disconnect(ctx context.Context, id string) (models.CalendarSource, error) {
	if existing, ok := s.sources.Get(id); ok && existing.Provider == models.SourceProviderInternal {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrValidation, "the firm calendar cannot be disconnected")
	}
	source, err := s.sources.Disconnect(id)
	if err != nil {
		return models.CalendarSource{}, err
	}
	s.invalidateAnalytics(ctx)
	s.logger.Info("calendar source disconnected", zap.String("source_id", source.ID))
	return source, nil
}
