package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/firmdesk/firmdesk-api/internal/service"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
	"github.com/firmdesk/firmdesk-api/pkg/response"
)

// AnalyticsHandler exposes the meeting analytics endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	metrics   *service.MetricsService
}

// NewAnalyticsHandler constructs AnalyticsHandler. metrics may be nil.
func NewAnalyticsHandler(analytics *service.AnalyticsService, metrics *service.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, metrics: metrics}
}

// Report godoc
// @Summary Meeting analytics
// @Tags Analytics
// @Produce json
// @Param window query int false "Trailing window in days: 7, 30, 90 or 365 (default 30)"
// @Success 200 {object} response.Envelope
// @Router /analytics [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	window := 30
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "window must be an integer"))
			return
		}
		window = parsed
	}

	report, cacheHit, err := h.analytics.Report(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordCacheLookup(cacheHit)
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{"cache_hit": cacheHit})
}
