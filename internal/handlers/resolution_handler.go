package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/services"
)

// ResolutionHandler handles identifier detection and resolution requests.
type ResolutionHandler struct {
	resolverService services.ResolverServicer
}

// NewResolutionHandler creates a new ResolutionHandler.
func NewResolutionHandler(resolverService services.ResolverServicer) *ResolutionHandler {
	return &ResolutionHandler{resolverService: resolverService}
}

// ResolveOrCreateRequest represents the request payload for create-or-resolve.
type ResolveOrCreateRequest struct {
	Value          string          `json:"identifier_value" binding:"required,min=1,max=50"`
	Type           identifier.Type `json:"identifier_type" binding:"required,identifier_type"`
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Classification string          `json:"classification,omitempty"`
	Country        string          `json:"country" binding:"omitempty,country_code"`
	Currency       string          `json:"currency" binding:"omitempty,iso4217"`
	AsOf           *string         `json:"as_of,omitempty"`
}

// Detect handles classifying a raw identifier value.
// @Summary     Detect identifier type
// @Description Classify a raw identifier value by pattern, without resolving it
// @Tags        resolution
// @Produce     json
// @Security    BearerAuth
// @Param       value query string true "Raw identifier value"
// @Success     200 {object} map[string]interface{} "Detected type, if any"
// @Failure     400 {object} ErrorResponse "Missing value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resolve/detect [get]
func (h *ResolutionHandler) Detect(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "value is required"))
		return
	}

	detected, ok := h.resolverService.DetectIdentifierType(value)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"value": value, "detected": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value, "detected": true, "identifier_type": detected})
}

// Resolve handles resolving an identifier of a known type.
// @Summary     Resolve identifier
// @Description Resolve an identifier to a security ID as of a date; a miss returns resolved=false, not an error
// @Tags        resolution
// @Produce     json
// @Security    BearerAuth
// @Param       value query string true  "Identifier value"
// @Param       type  query string true  "Identifier type"
// @Param       as_of query string false "As-of date (RFC3339 or YYYY-MM-DD, default today)"
// @Success     200 {object} map[string]interface{} "Resolution result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resolve [get]
func (h *ResolutionHandler) Resolve(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "value is required"))
		return
	}
	idType := identifier.Type(c.Query("type"))
	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	securityID, err := h.resolverService.Resolve(value, idType, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if securityID == nil {
		c.JSON(http.StatusOK, gin.H{"resolved": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true, "security_id": *securityID})
}

// ResolveAuto handles resolving an identifier with type detection.
// @Summary     Auto-resolve identifier
// @Description Detect the identifier type and resolve; undetectable values return resolved=false
// @Tags        resolution
// @Produce     json
// @Security    BearerAuth
// @Param       value query string true  "Identifier value"
// @Param       as_of query string false "As-of date (RFC3339 or YYYY-MM-DD, default today)"
// @Success     200 {object} map[string]interface{} "Resolution result"
// @Failure     400 {object} ErrorResponse "Missing value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resolve/auto [get]
func (h *ResolutionHandler) ResolveAuto(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "value is required"))
		return
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	securityID, err := h.resolverService.ResolveAuto(value, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if securityID == nil {
		c.JSON(http.StatusOK, gin.H{"resolved": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true, "security_id": *securityID})
}

// ResolveOrCreate handles resolving an identifier, creating a security on a miss.
// @Summary     Resolve or create
// @Description Resolve an identifier, creating and binding a new security when no binding exists (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ResolveOrCreateRequest true "Identifier and security details"
// @Success     200 {object} map[string]interface{} "Resolved existing security"
// @Success     201 {object} map[string]interface{} "Created new security"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     409 {object} ErrorResponse "Identifier bound outside the requested as-of date"
// @Router      /pipeline/resolve-or-create [post]
func (h *ResolutionHandler) ResolveOrCreate(c *gin.Context) {
	var req ResolveOrCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	input := services.ResolveOrCreateInput{
		Value:          req.Value,
		Type:           req.Type,
		Name:           req.Name,
		Classification: req.Classification,
		Country:        req.Country,
		Currency:       req.Currency,
	}
	if req.AsOf != nil {
		t, err := parseFlexibleTime(*req.AsOf)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid as_of format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		input.AsOf = &t
	}

	securityID, created, err := h.resolverService.ResolveOrCreate(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"security_id": securityID, "created": created})
}
