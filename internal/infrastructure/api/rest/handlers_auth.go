package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/auth"
)

// AuthHandlers exposes the service-account identity-token exchange over HTTP.
type AuthHandlers struct {
	exchange *auth.ServiceExchangeService
}

// NewAuthHandlers wires the auth handlers.
func NewAuthHandlers(exchange *auth.ServiceExchangeService) *AuthHandlers {
	return &AuthHandlers{exchange: exchange}
}

type serviceAuthRequest struct {
	IdentityToken string `json:"identity_token" binding:"required"`
}

type serviceAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
}

// ExchangeServiceToken godoc
// @Summary Exchange a GCP identity token for a session token
// @Router /auth/service [post]
func (h *AuthHandlers) ExchangeServiceToken(c *gin.Context) {
	var req serviceAuthRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.exchange.Exchange(c.Request.Context(), req.IdentityToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, serviceAuthResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		UserID:      result.User.ID,
	})
}
