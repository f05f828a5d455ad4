package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/models"
	"github.com/firmdesk/firmdesk-api/internal/projection"
	"github.com/firmdesk/firmdesk-api/internal/service"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
	"github.com/firmdesk/firmdesk-api/pkg/response"
)

// CalendarHandler exposes the calendar views and event endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// referenceDate reads the date query parameter, defaulting to today.
func referenceDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	ref, err := time.Parse(projection.DateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	return ref, nil
}

// Day godoc
// @Summary Day view
// @Tags Calendar
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /calendar/day [get]
func (h *CalendarHandler) Day(c *gin.Context) {
	ref, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.calendar.Day(c.Request.Context(), ref), nil)
}

// Week godoc
// @Summary Week view
// @Tags Calendar
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /calendar/week [get]
func (h *CalendarHandler) Week(c *gin.Context) {
	ref, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.calendar.Week(c.Request.Context(), ref), nil)
}

// Month godoc
// @Summary Month view
// @Tags Calendar
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	ref, err := referenceDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.calendar.Month(c.Request.Context(), ref), nil)
}

// Agenda godoc
// @Summary Agenda list
// @Tags Calendar
// @Produce json
// @Param search query string false "Match against title, client and description"
// @Param kind query string false "Filter by meeting kind"
// @Param range query string false "upcoming, today, next-7-days, next-30-days or past"
// @Success 200 {object} response.Envelope
// @Router /calendar/agenda [get]
func (h *CalendarHandler) Agenda(c *gin.Context) {
	filter := projection.AgendaFilter{Search: c.Query("search")}
	if kind := c.Query("kind"); kind != "" {
		if !models.ValidEventKind(kind) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown meeting kind"))
			return
		}
		k := models.EventKind(kind)
		filter.Kind = &k
	}
	if rng := c.Query("range"); rng != "" {
		if !projection.ValidAgendaRange(rng) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown agenda range"))
			return
		}
		filter.Range = projection.AgendaRange(rng)
	}
	response.JSON(c, http.StatusOK, h.calendar.Agenda(c.Request.Context(), filter), nil)
}

// GetEvent godoc
// @Summary Get event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *CalendarHandler) GetEvent(c *gin.Context) {
	event, err := h.calendar.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// CreateEvent godoc
// @Summary Schedule a meeting
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.calendar.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	confirmation := event.Title + " scheduled for " + event.Date + " at " + event.StartTime
	response.JSON(c, http.StatusCreated, event, nil, map[string]interface{}{"confirmation": confirmation})
}

// UpdateEvent godoc
// @Summary Edit a meeting
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [put]
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.calendar.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// DeleteEvent godoc
// @Summary Cancel a meeting
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.calendar.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RescheduleEvent godoc
// @Summary Move a meeting to another slot
// @Description Drag-and-drop reschedule. The meeting keeps its duration; when start_time is omitted only the date changes.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.RescheduleRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/reschedule [post]
func (h *CalendarHandler) RescheduleEvent(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, confirmation, err := h.calendar.Reschedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil, map[string]interface{}{"confirmation": confirmation})
}
