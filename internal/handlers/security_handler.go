package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/pagination"
	"secmaster/internal/services"
)

// SecurityHandler handles security and identifier-binding requests.
type SecurityHandler struct {
	securityService services.SecurityServicer
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(securityService services.SecurityServicer) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// CreateSecurityRequest represents the request payload for creating a security.
type CreateSecurityRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Classification string `json:"classification,omitempty"`
	Country        string `json:"country" binding:"omitempty,country_code"`
	Currency       string `json:"currency" binding:"omitempty,iso4217"`
}

// AddIdentifierRequest represents the request payload for binding an
// identifier to a security.
type AddIdentifierRequest struct {
	Type      identifier.Type `json:"identifier_type" binding:"required,identifier_type"`
	Value     string          `json:"identifier_value" binding:"required,min=1,max=50"`
	IsPrimary bool            `json:"is_primary,omitempty"`
	ValidFrom *string         `json:"valid_from,omitempty"`
	ValidTo   *string         `json:"valid_to,omitempty"`
}

// CreateSecurity handles creating a new security.
// @Summary     Create security
// @Description Create a new canonical security record (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateSecurityRequest true "Security details"
// @Success     201 {object} models.Security "Security created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/securities [post]
func (h *SecurityHandler) CreateSecurity(c *gin.Context) {
	var req CreateSecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	security, err := h.securityService.CreateSecurity(req.Name, req.Classification, req.Country, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"security": security})
}

// AddIdentifier handles binding an identifier to a security.
// @Summary     Add identifier
// @Description Bind an external identifier to a security for a validity interval (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int                  true "Security ID"
// @Param       request body AddIdentifierRequest true "Identifier binding"
// @Success     201 {object} models.SecurityIdentifier "Identifier bound"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Failure     409 {object} ErrorResponse "Interval conflict or duplicate identifier"
// @Router      /pipeline/securities/{id}/identifiers [post]
func (h *SecurityHandler) AddIdentifier(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	var validFrom, validTo *time.Time
	if req.ValidFrom != nil {
		t, err := parseFlexibleTime(*req.ValidFrom)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid valid_from format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		validFrom = &t
	}
	if req.ValidTo != nil {
		t, err := parseFlexibleTime(*req.ValidTo)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid valid_to format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		validTo = &t
	}

	row, err := h.securityService.AddIdentifier(id, req.Type, req.Value, req.IsPrimary, validFrom, validTo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"identifier": row})
}

// SearchSecurities handles searching for securities.
// @Summary     Search securities
// @Description Search securities by name substring or exact identifier value (paginated)
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       name       query string false "Name substring"
// @Param       identifier query string false "Exact identifier value"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Security] "Paginated securities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /securities [get]
func (h *SecurityHandler) SearchSecurities(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.securityService.SearchSecurities(c.Query("name"), c.Query("identifier"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSecurity handles retrieving a specific security.
// @Summary     Get security by ID
// @Description Get a specific security by its internal ID
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Security ID"
// @Success     200 {object} models.Security "Security details"
// @Failure     400 {object} ErrorResponse "Invalid security ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Router      /securities/{id} [get]
func (h *SecurityHandler) GetSecurity(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	security, err := h.securityService.GetSecurityByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"security": security})
}

// GetIdentifiers handles listing all identifiers bound to a security.
// @Summary     List identifiers
// @Description Get all identifier bindings for a security, including historical intervals
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Security ID"
// @Success     200 {object} map[string][]models.SecurityIdentifier "Identifier bindings"
// @Failure     400 {object} ErrorResponse "Invalid security ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Router      /securities/{id}/identifiers [get]
func (h *SecurityHandler) GetIdentifiers(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	identifiers, err := h.securityService.GetIdentifiers(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"identifiers": identifiers})
}

// DeactivateSecurity handles soft-deactivating a security.
// @Summary     Deactivate security
// @Description Clear the active flag on a security; bindings and time series stay queryable
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Security ID"
// @Success     200 {object} map[string]string "Security deactivated"
// @Failure     400 {object} ErrorResponse "Invalid security ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Router      /securities/{id} [delete]
func (h *SecurityHandler) DeactivateSecurity(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.securityService.DeactivateSecurity(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
