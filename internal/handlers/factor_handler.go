package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/models"
	"secmaster/internal/services"
)

// FactorHandler handles factor definition and factor value requests.
type FactorHandler struct {
	factorService services.FactorServicer
}

// NewFactorHandler creates a new FactorHandler.
func NewFactorHandler(factorService services.FactorServicer) *FactorHandler {
	return &FactorHandler{factorService: factorService}
}

// CreateFactorRequest represents the request payload for defining a factor.
type CreateFactorRequest struct {
	Code        string                `json:"code" binding:"required,min=1,max=50"`
	Name        string                `json:"name" binding:"required,min=1,max=100"`
	Description string                `json:"description,omitempty"`
	Category    string                `json:"category,omitempty"`
	DataType    models.FactorDataType `json:"data_type" binding:"omitempty,factor_data_type"`
}

// RecordFactorValuesRequest represents the request payload for bulk factor ingest.
type RecordFactorValuesRequest struct {
	Values []RecordFactorValueEntry `json:"values" binding:"required,min=1,dive"`
}

// RecordFactorValueEntry represents a single factor observation in a bulk request.
type RecordFactorValueEntry struct {
	SecurityID   uint     `json:"security_id" binding:"required"`
	FactorCode   string   `json:"factor_code" binding:"required"`
	AsOfDate     string   `json:"as_of_date" binding:"required"`
	ValueNumeric *float64 `json:"value_numeric,omitempty"`
	ValueText    *string  `json:"value_text,omitempty"`
}

// CreateFactor handles defining a new factor.
// @Summary     Create factor
// @Description Register a factor definition
// @Tags        factors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFactorRequest true "Factor details"
// @Success     201 {object} models.FactorDefinition "Factor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate factor code"
// @Router      /factors [post]
func (h *FactorHandler) CreateFactor(c *gin.Context) {
	var req CreateFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	factor, err := h.factorService.CreateFactor(req.Code, req.Name, req.Description, req.Category, req.DataType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"factor": factor})
}

// ListFactors handles listing all factor definitions.
// @Summary     List factors
// @Description Get all factor definitions ordered by code
// @Tags        factors
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.FactorDefinition "Factors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /factors [get]
func (h *FactorHandler) ListFactors(c *gin.Context) {
	factors, err := h.factorService.ListFactors()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"factors": factors})
}

// RecordValues handles bulk factor ingest for one source.
// @Summary     Record factor values
// @Description Bulk ingest factor observations tagged with a source; existing (security, factor, source, date) rows are skipped (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       source  path string                    true "Source code"
// @Param       request body RecordFactorValuesRequest true "Factor observations"
// @Success     200 {object} map[string]int "Inserted row count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Source or factor not found"
// @Router      /pipeline/factors/{source} [post]
func (h *FactorHandler) RecordValues(c *gin.Context) {
	var req RecordFactorValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	inputs := make([]services.FactorValueInput, len(req.Values))
	for i, v := range req.Values {
		date, err := parseFlexibleTime(v.AsOfDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid as_of_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		inputs[i] = services.FactorValueInput{
			SecurityID:   v.SecurityID,
			FactorCode:   v.FactorCode,
			AsOfDate:     date,
			ValueNumeric: v.ValueNumeric,
			ValueText:    v.ValueText,
		}
	}

	count, err := h.factorService.RecordValues(c.Param("source"), inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"values_recorded": count})
}

// GetBestValues handles retrieving reconciled values for one factor.
// @Summary     Get best factor values
// @Description Get one value per date for a factor: the observation from the highest-priority active source
// @Tags        factors
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true  "Security ID"
// @Param       code      path  string true  "Factor code"
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} map[string][]services.BestFactorValue "Reconciled values"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Factor not found"
// @Router      /securities/{id}/factors/{code}/best [get]
func (h *FactorHandler) GetBestValues(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := parseOptionalDate(c, "from_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseOptionalDate(c, "to_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	best, err := h.factorService.GetBestValues(id, c.Param("code"), from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"values": best})
}

// GetLatestFactors handles retrieving the latest reconciled value per factor.
// @Summary     Get latest factors
// @Description Get, for each factor with observations on the security, the reconciled value at its most recent date
// @Tags        factors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Security ID"
// @Success     200 {object} map[string][]services.BestFactorValue "Latest reconciled values"
// @Failure     400 {object} ErrorResponse "Invalid security ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /securities/{id}/factors/latest [get]
func (h *FactorHandler) GetLatestFactors(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	latest, err := h.factorService.GetLatestFactors(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"factors": latest})
}
