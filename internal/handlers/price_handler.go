package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/pagination"
	"secmaster/internal/services"
)

// PriceHandler handles price ingest and reconciliation requests.
type PriceHandler struct {
	priceService services.PriceServicer
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService services.PriceServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// RecordPricesRequest represents the request payload for bulk price ingest.
type RecordPricesRequest struct {
	Prices []RecordPriceEntry `json:"prices" binding:"required,min=1,dive"`
}

// RecordPriceEntry represents a single price observation in a bulk request.
type RecordPriceEntry struct {
	SecurityID    uint     `json:"security_id" binding:"required"`
	PriceDate     string   `json:"price_date" binding:"required"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Close         float64  `json:"close" binding:"required"`
	Volume        *int64   `json:"volume,omitempty"`
	AdjustedClose *float64 `json:"adjusted_close,omitempty"`
}

// RecordPrices handles bulk price ingest for one source.
// @Summary     Record prices
// @Description Bulk ingest daily prices tagged with a source; existing (security, source, date) rows are skipped (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       source  path string              true "Source code"
// @Param       request body RecordPricesRequest true "Price observations"
// @Success     200 {object} map[string]int "Inserted row count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Source not found"
// @Router      /pipeline/prices/{source} [post]
func (h *PriceHandler) RecordPrices(c *gin.Context) {
	var req RecordPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	inputs := make([]services.PriceInput, len(req.Prices))
	for i, p := range req.Prices {
		date, err := parseFlexibleTime(p.PriceDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid price_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		inputs[i] = services.PriceInput{
			SecurityID:    p.SecurityID,
			PriceDate:     date,
			Open:          p.Open,
			High:          p.High,
			Low:           p.Low,
			Close:         p.Close,
			Volume:        p.Volume,
			AdjustedClose: p.AdjustedClose,
		}
	}

	count, err := h.priceService.RecordPrices(c.Param("source"), inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices_recorded": count})
}

// GetPriceHistory handles retrieving raw price history for a security.
// @Summary     Get price history
// @Description Get raw, unreconciled price rows for a security within a date range (paginated)
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true "Security ID"
// @Param       from_date query string true "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string true "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Price] "Paginated prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /securities/{id}/prices [get]
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := requireDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.priceService.GetPriceHistory(id, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBestPrices handles retrieving reconciled prices for a security.
// @Summary     Get best prices
// @Description Get one price per date: the observation from the highest-priority active source
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true  "Security ID"
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} map[string][]services.BestPrice "Reconciled prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /securities/{id}/prices/best [get]
func (h *PriceHandler) GetBestPrices(c *gin.Context) {
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

	best, err := h.priceService.GetBestPrices(id, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": best})
}

// requireDateRange parses the mandatory from_date/to_date query parameters.
func requireDateRange(c *gin.Context) (time.Time, time.Time, error) {
	fromStr := c.Query("from_date")
	if fromStr == "" {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrValidation, "from_date is required")
	}
	from, err := parseFlexibleTime(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrValidation, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
	}

	toStr := c.Query("to_date")
	if toStr == "" {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrValidation, "to_date is required")
	}
	to, err := parseFlexibleTime(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrValidation, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
	}

	return from, to, nil
}
