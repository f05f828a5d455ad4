package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/projection"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
	"github.com/firmdesk/firmdesk-api/pkg/export"
	"github.com/firmdesk/firmdesk-api/pkg/jobs"
)

const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

type exportQueue interface {
	Enqueue(job jobs.Job) error
}

type exportResult struct {
	status      dto.ExportStatus
	data        []byte
	contentType string
}

// ExportService renders agenda and analytics exports. Document generation
// runs on the background queue; finished files are held in memory until
// downloaded or evicted.
type ExportService struct {
	calendar  *CalendarService
	analytics *AnalyticsService

	csv *export.CSVExporter
	pdf *export.PDFExporter
	ics *export.ICSExporter

	queue     exportQueue
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	results map[string]*exportResult
}

func NewExportService(calendar *CalendarService, analytics *AnalyticsService, icsProdID string, validate *validator.Validate, logger *zap.Logger, now func() time.Time) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &ExportService{
		calendar:  calendar,
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		ics:       export.NewICSExporter(icsProdID),
		validator: validate,
		logger:    logger,
		now:       now,
		results:   make(map[string]*exportResult),
	}
}

// SetQueue attaches the background queue. The queue's handler must be this
// service's Process method.
func (s *ExportService) SetQueue(q exportQueue) {
	s.queue = q
}

// Request validates and queues an export, returning its pending status.
func (s *ExportService) Request(ctx context.Context, req dto.ExportRequest) (dto.ExportStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ExportStatus{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if req.Kind == "analytics" && req.Format == "ics" {
		return dto.ExportStatus{}, appErrors.Clone(appErrors.ErrValidation, "analytics exports support csv and pdf only")
	}
	if req.Kind == "analytics" && !projection.ValidAnalyticsWindow(req.WindowDays) {
		return dto.ExportStatus{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported window: %d days", req.WindowDays))
	}
	if req.Range != "" && !projection.ValidAgendaRange(req.Range) {
		return dto.ExportStatus{}, appErrors.Clone(appErrors.ErrValidation, "unknown agenda range")
	}

	status := dto.ExportStatus{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		Format:      req.Format,
		Status:      ExportStatusPending,
		RequestedAt: s.now(),
	}

	s.mu.Lock()
	s.results[status.ID] = &exportResult{status: status}
	s.mu.Unlock()

	if s.queue == nil {
		return dto.ExportStatus{}, appErrors.Clone(appErrors.ErrInternal, "export queue unavailable")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: status.ID, Type: req.Kind, Payload: req}); err != nil {
		s.mu.Lock()
		delete(s.results, status.ID)
		s.mu.Unlock()
		return dto.ExportStatus{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return status, nil
}

// Process is the queue handler: it renders the document and records the
// outcome against the job id.
func (s *ExportService) Process(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.ExportRequest)
	if !ok {
		return fmt.Errorf("unexpected export payload type %T", job.Payload)
	}

	data, contentType, filename, err := s.render(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	result, found := s.results[job.ID]
	if !found {
		return nil
	}
	completed := s.now()
	result.status.CompletedAt = &completed
	if err != nil {
		result.status.Status = ExportStatusFailed
		result.status.Error = err.Error()
		return err
	}
	result.status.Status = ExportStatusCompleted
	result.status.Filename = filename
	result.data = data
	result.contentType = contentType
	return nil
}

// Status returns the lifecycle record for an export.
func (s *ExportService) Status(ctx context.Context, id string) (dto.ExportStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return dto.ExportStatus{}, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return result.status, nil
}

// Download returns a completed export's file.
func (s *ExportService) Download(ctx context.Context, id string) (string, string, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return "", "", nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	if result.status.Status != ExportStatusCompleted {
		return "", "", nil, appErrors.Clone(appErrors.ErrConflict, "export is not ready")
	}
	return result.status.Filename, result.contentType, result.data, nil
}

// Feed renders the live iCalendar feed of all visible meetings, suitable for
// calendar-client subscription.
func (s *ExportService) Feed(ctx context.Context) ([]byte, error) {
	events := projection.Visible(s.calendar.events.All(), s.calendar.sources.EnabledIDs())
	icsEvents := make([]export.ICSEvent, 0, len(events))
	for _, event := range events {
		start, end, err := eventTimes(event)
		if err != nil {
			s.logger.Warn("skipping event with unparseable times", zap.String("event_id", event.ID), zap.Error(err))
			continue
		}
		ics := export.ICSEvent{
			UID:         event.ID + "@firmdesk",
			Summary:     event.Title,
			Description: event.Description,
			Start:       start,
			End:         end,
			Attendees:   event.Attendees,
		}
		if event.Location != nil {
			ics.Location = *event.Location
		}
		if event.MeetingLink != nil {
			ics.URL = *event.MeetingLink
		}
		icsEvents = append(icsEvents, ics)
	}
	return s.ics.Render(icsEvents)
}

func (s *ExportService) render(ctx context.Context, req dto.ExportRequest) ([]byte, string, string, error) {
	stamp := s.now().Format("2006-01-02")
	switch req.Kind {
	case "agenda":
		groups := s.calendar.Agenda(ctx, projection.AgendaFilter{
			Search: req.Search,
			Range:  projection.AgendaRange(req.Range),
		})
		switch req.Format {
		case "csv":
			data, err := s.csv.Render(agendaDataset(groups))
			return data, "text/csv", "agenda-" + stamp + ".csv", err
		case "pdf":
			data, err := s.pdf.Render(agendaDataset(groups), "Agenda")
			return data, "application/pdf", "agenda-" + stamp + ".pdf", err
		case "ics":
			data, err := s.ics.Render(agendaICS(groups))
			return data, "text/calendar", "agenda-" + stamp + ".ics", err
		}
	case "analytics":
		report, _, err := s.analytics.Report(ctx, req.WindowDays)
		if err != nil {
			return nil, "", "", err
		}
		switch req.Format {
		case "csv":
			data, err := s.csv.Render(analyticsDataset(report))
			return data, "text/csv", "analytics-" + stamp + ".csv", err
		case "pdf":
			data, err := s.pdf.Render(analyticsDataset(report), fmt.Sprintf("Meeting Analytics (last %d days)", report.WindowDays))
			return data, "application/pdf", "analytics-" + stamp + ".pdf", err
		}
	}
	return nil, "", "", fmt.Errorf("unsupported export: %s as %s", req.Kind, req.Format)
}

func agendaDataset(groups []projection.AgendaGroup) export.Dataset {
	ds := export.Dataset{Headers: []string{"Date", "Start", "End", "Title", "Client", "Type", "Where"}}
	for _, group := range groups {
		for _, event := range group.Events {
			where := ""
			if event.Location != nil {
				where = *event.Location
			} else if event.MeetingLink != nil {
				where = *event.MeetingLink
			}
			ds.Rows = append(ds.Rows, []string{
				event.Date, event.StartTime, event.EndTime,
				event.Title, event.ClientName, string(event.Kind), where,
			})
		}
	}
	return ds
}

func agendaICS(groups []projection.AgendaGroup) []export.ICSEvent {
	var out []export.ICSEvent
	for _, group := range groups {
		for _, event := range group.Events {
			start, end, err := eventTimes(event)
			if err != nil {
				continue
			}
			ics := export.ICSEvent{
				UID:         event.ID + "@firmdesk",
				Summary:     event.Title,
				Description: event.Description,
				Start:       start,
				End:         end,
				Attendees:   event.Attendees,
			}
			if event.Location != nil {
				ics.Location = *event.Location
			}
			if event.MeetingLink != nil {
				ics.URL = *event.MeetingLink
			}
			out = append(out, ics)
		}
	}
	return out
}

func analyticsDataset(report projection.Analytics) export.Dataset {
	mostActive := ""
	if report.MostActiveClient != nil {
		mostActive = fmt.Sprintf("%s (%d meetings)", report.MostActiveClient.ClientName, report.MostActiveClient.Meetings)
	}
	return export.Dataset{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Window (days)", strconv.Itoa(report.WindowDays)},
			{"Total meetings", strconv.Itoa(report.TotalMeetings)},
			{"Video", fmt.Sprintf("%d (%d%%)", report.VideoCount, report.VideoPercentage)},
			{"In person", fmt.Sprintf("%d (%d%%)", report.InPersonCount, report.InPersonPercentage)},
			{"Calls", fmt.Sprintf("%d (%d%%)", report.CallCount, report.CallPercentage)},
			{"Emails", strconv.Itoa(report.EmailCount)},
			{"Unique clients", strconv.Itoa(report.UniqueClients)},
			{"Most active client", mostActive},
			{"Total hours", fmt.Sprintf("%.1f", report.TotalHours)},
			{"Average per week", fmt.Sprintf("%.1f", report.AvgPerWeek)},
			{"Upcoming", strconv.Itoa(report.UpcomingCount)},
			{"Past", strconv.Itoa(report.PastCount)},
		},
	}
}

func eventTimes(event models.Event) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.StartTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.EndTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
