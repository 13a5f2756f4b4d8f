package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/middleware"
)

// AuthHandler issues read tokens for query endpoints. Write access goes
// through the pipeline API key; the token exchange lets downstream consumers
// hold a short-lived credential instead of the key itself.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// TokenRequest represents the request payload for issuing a read token.
type TokenRequest struct {
	ClientName string `json:"client_name" binding:"required,min=1,max=100"`
}

// TokenResponse represents an issued read token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken exchanges a valid pipeline API key for a short-lived read token.
// @Summary     Issue read token
// @Description Exchange the pipeline API key for a short-lived JWT used on query endpoints
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body TokenRequest true "Client name"
// @Success     200 {object} TokenResponse "Issued token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	token, expiresAt, err := middleware.GenerateAccessToken(req.ClientName)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
