package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/models"
	"secmaster/internal/services"
)

// SourceHandler handles data source registry requests.
type SourceHandler struct {
	sourceService services.SourceServicer
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(sourceService services.SourceServicer) *SourceHandler {
	return &SourceHandler{sourceService: sourceService}
}

// CreateSourceRequest represents the request payload for registering a source.
type CreateSourceRequest struct {
	Code          string            `json:"code" binding:"required,min=1,max=50"`
	Name          string            `json:"name" binding:"required,min=1,max=100"`
	Kind          models.SourceKind `json:"kind" binding:"required,source_kind"`
	PreferredType identifier.Type   `json:"preferred_identifier_type" binding:"omitempty,identifier_type"`
	Priority      int               `json:"priority" binding:"omitempty,min=1,max=1000"`
}

// UpdateSourceRequest represents the request payload for updating a source.
// Omitted fields are left unchanged.
type UpdateSourceRequest struct {
	Priority *int  `json:"priority" binding:"omitempty,min=1,max=1000"`
	Active   *bool `json:"active"`
}

// CreateSource handles registering a new data source.
// @Summary     Create data source
// @Description Register a priority-ranked data source
// @Tags        sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSourceRequest true "Source details"
// @Success     201 {object} models.DataSource "Source created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate source code"
// @Router      /sources [post]
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	priority := req.Priority
	if priority == 0 {
		priority = 100
	}

	source, err := h.sourceService.CreateSource(req.Code, req.Name, req.Kind, req.PreferredType, priority)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"source": source})
}

// ListSources handles listing all data sources.
// @Summary     List data sources
// @Description Get all registered data sources ordered by priority
// @Tags        sources
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.DataSource "Sources"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /sources [get]
func (h *SourceHandler) ListSources(c *gin.Context) {
	sources, err := h.sourceService.ListSources()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// UpdateSource handles updating the priority or active flag of a source.
// @Summary     Update data source
// @Description Update the priority and/or active flag of a source; omitted fields are unchanged
// @Tags        sources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       code    path string              true "Source code"
// @Param       request body UpdateSourceRequest true "Fields to update"
// @Success     200 {object} models.DataSource "Updated source"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Source not found"
// @Router      /sources/{code} [patch]
func (h *SourceHandler) UpdateSource(c *gin.Context) {
	var req UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	source, err := h.sourceService.UpdateSource(c.Param("code"), req.Priority, req.Active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"source": source})
}
