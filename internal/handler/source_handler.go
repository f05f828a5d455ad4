package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firmdesk/firmdesk-api/internal/dto"
	"github.com/firmdesk/firmdesk-api/internal/service"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
	"github.com/firmdesk/firmdesk-api/pkg/response"
)

// SourceHandler exposes calendar source endpoints.
type SourceHandler struct {
	sources *service.SourceService
}

// NewSourceHandler constructs SourceHandler.
func NewSourceHandler(sources *service.SourceService) *SourceHandler {
	return &SourceHandler{sources: sources}
}

// List godoc
// @Summary List calendar sources
// @Tags Sources
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sources [get]
func (h *SourceHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sources.List(c.Request.Context()), nil)
}

// Toggle godoc
// @Summary Toggle source visibility
// @Tags Sources
// @Produce json
// @Param id path string true "Source ID"
// @Success 200 {object} response.Envelope
// @Router /sources/{id}/toggle [post]
func (h *SourceHandler) Toggle(c *gin.Context) {
	source, err := h.sources.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, source, nil)
}

// SetColor godoc
// @Summary Change a source's display color
// @Tags Sources
// @Accept json
// @Produce json
// @Param id path string true "Source ID"
// @Param payload body dto.SetSourceColorRequest true "Color payload"
// @Success 200 {object} response.Envelope
// @Router /sources/{id}/color [put]
func (h *SourceHandler) SetColor(c *gin.Context) {
	var req dto.SetSourceColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	source, err := h.sources.SetColor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, source, nil)
}

// Connect godoc
// @Summary Connect an external calendar account
// @Tags Sources
// @Accept json
// @Produce json
// @Param payload body dto.ConnectSourceRequest true "Provider payload"
// @Success 201 {object} response.Envelope
// @Router /sources/connect [post]
func (h *SourceHandler) Connect(c *gin.Context) {
	var req dto.ConnectSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	source, err := h.sources.Connect(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, source)
}

// Disconnect godoc
// @Summary Disconnect an external calendar account
// @Tags Sources
// @Produce json
// @Param id path string true "Source ID"
// @Success 200 {object} response.Envelope
// @Router /sources/{id} [delete]
func (h *SourceHandler) Disconnect(c *gin.Context) {
	source, err := h.sources.Disconnect(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, source, nil)
}
