package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/projection"
	"github.com/firmdesk/firmdesk-api/internal/store"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

type eventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// CalendarService owns the scheduling core: event CRUD, the drag-reschedule
// operation and the read-side projections.
type CalendarService struct {
	events    *store.EventStore
	sources   *store.SourceRegistry
	bus       eventPublisher
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCalendarService constructs the service. The now function may be nil and
// defaults to the wall clock; tests pin it.
func NewCalendarService(events *store.EventStore, sources *store.SourceRegistry, bus eventPublisher, validate *validator.Validate, logger *zap.Logger, now func() time.Time) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	RegisterCalendarValidations(validate)
	return &CalendarService{events: events, sources: sources, bus: bus, validator: validate, logger: logger, now: now}
}

// RegisterCalendarValidations installs the custom validator tags the calendar
// DTOs use. Safe to call more than once.
func RegisterCalendarValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("eventkind", func(fl validator.FieldLevel) bool {
		return models.ValidEventKind(fl.Field().String())
	})
	_ = validate.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := projection.MinutesOfDay(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("datecalendar", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(projection.DateLayout, fl.Field().String())
		return err == nil
	})
}

// Get returns a single event by id.
func (s *CalendarService) Get(ctx context.Context, id string) (models.Event, error) {
	event, ok := s.events.Get(id)
	if !ok {
		return models.Event{}, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// Create registers a meeting from the schedule dialog and announces it on the
// bus so sibling processes can mirror it.
func (s *CalendarService) Create(ctx context.Context, req dto.CreateEventRequest) (models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Event{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return models.Event{}, err
	}
	if _, ok := s.sources.Get(req.SourceID); !ok {
		return models.Event{}, appErrors.Clone(appErrors.ErrValidation, "unknown calendar source")
	}

	event := models.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Kind:        models.EventKind(req.Kind),
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Attendees:   req.Attendees,
		Description: req.Description,
		SourceID:    req.SourceID,
	}
	if req.VideoProvider != nil {
		provider := models.VideoProvider(*req.VideoProvider)
		if provider != models.VideoProviderGoogleMeet && provider != models.VideoProviderZoom {
			return models.Event{}, appErrors.Clone(appErrors.ErrValidation, "unknown video provider")
		}
		event.VideoProvider = &provider
	}
	if event.Kind != models.EventKindVideo {
		event.VideoProvider = nil
		event.MeetingLink = nil
	}
	if event.Kind != models.EventKindInPerson {
		event.Location = nil
	}

	if err := s.events.Add(event); err != nil {
		return models.Event{}, err
	}
	if s.bus != nil {
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to announce created event", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return event, nil
}

// Update applies the edit-dialog payload to an existing event.
func (s *CalendarService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Event{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}

	existing, ok := s.events.Get(id)
	if !ok {
		return models.Event{}, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	start := existing.StartTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	end := existing.EndTime
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := validateTimeRange(start, end); err != nil {
		return models.Event{}, err
	}
	if req.SourceID != nil {
		if _, ok := s.sources.Get(*req.SourceID); !ok {
			return models.Event{}, appErrors.Clone(appErrors.ErrValidation, "unknown calendar source")
		}
	}

	patch := models.EventPatch{
		Title:       req.Title,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Attendees:   req.Attendees,
		Description: req.Description,
		SourceID:    req.SourceID,
	}
	if req.Kind != nil {
		kind := models.EventKind(*req.Kind)
		patch.Kind = &kind
	}
	if req.VideoProvider != nil {
		provider := models.VideoProvider(*req.VideoProvider)
		patch.VideoProvider = &provider
	}
	return s.events.Update(id, patch)
}

// Delete removes a meeting. The store takes care of scrubbing the snapshot
// mirror for externally created events.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	return s.events.Remove(ctx, id)
}

// Reschedule implements the drag-and-drop move: the event lands on a new
// date, optionally a new hour slot, and keeps its original duration. A move
// whose end would cross midnight is rejected rather than clamped or rolled
// into the next day.
func (s *CalendarService) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (models.Event, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Event{}, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}

	existing, ok := s.events.Get(id)
	if !ok {
		return models.Event{}, "", appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	duration := projection.Duration(existing)
	if duration <= 0 {
		return models.Event{}, "", appErrors.Clone(appErrors.ErrInvalidTimeRange, "event has no positive duration")
	}

	// Whole-day drops (month view) keep the original start time.
	startTime := existing.StartTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	startMinutes, err := projection.MinutesOfDay(startTime)
	if err != nil {
		return models.Event{}, "", appErrors.Clone(appErrors.ErrValidation, "invalid start time")
	}
	// End times are HH:MM within the same day, so 23:59 is the latest
	// representable slot end.
	endMinutes := startMinutes + duration
	if endMinutes >= 24*60 {
		return models.Event{}, "", appErrors.Clone(appErrors.ErrCrossesMidnight, "rescheduled meeting would cross midnight")
	}
	endTime := projection.FormatMinutes(endMinutes)

	updated, err := s.events.Update(id, models.EventPatch{
		Date:      &req.Date,
		StartTime: &startTime,
		EndTime:   &endTime,
	})
	if err != nil {
		return models.Event{}, "", err
	}

	when, _ := time.Parse(projection.DateLayout, req.Date)
	confirmation := fmt.Sprintf("%s moved to %s at %s", updated.Title, when.Format("Jan 2"), startTime)
	return updated, confirmation, nil
}

// Day returns the hour-bucketed projection for one date.
func (s *CalendarService) Day(ctx context.Context, reference time.Time) projection.DayView {
	return projection.Day(s.events.All(), s.sources.EnabledIDs(), reference, s.now())
}

// Week returns the Sunday-started week containing the reference date.
func (s *CalendarService) Week(ctx context.Context, reference time.Time) projection.WeekView {
	return projection.Week(s.events.All(), s.sources.EnabledIDs(), reference, s.now())
}

// Month returns the month grid for the reference date.
func (s *CalendarService) Month(ctx context.Context, reference time.Time) projection.MonthView {
	return projection.Month(s.events.All(), s.sources.EnabledIDs(), reference, s.now())
}

// Agenda returns the filtered, date-grouped agenda list.
func (s *CalendarService) Agenda(ctx context.Context, filter projection.AgendaFilter) []projection.AgendaGroup {
	return projection.Agenda(s.events.All(), s.sources.EnabledIDs(), filter, s.now())
}

// Version exposes the store's mutation counter for cache keying.
func (s *CalendarService) Version() uint64 {
	return s.events.Version()
}

func validateTimeRange(start, end string) error {
	startMinutes, err := projection.MinutesOfDay(start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid start time, expected HH:MM")
	}
	endMinutes, err := projection.MinutesOfDay(end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid end time, expected HH:MM")
	}
	if endMinutes <= startMinutes {
		return appErrors.Clone(appErrors.ErrInvalidTimeRange, "end time must be after start time")
	}
	return nil
}
