package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/auth"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

// AuthHandler exchanges access keys for viewer tokens
type AuthHandler struct {
	BaseHandler
	jwt  *auth.JWTService
	keys *auth.KeyRing
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwt *auth.JWTService, keys *auth.KeyRing) *AuthHandler {
	return &AuthHandler{jwt: jwt, keys: keys}
}

// IssueToken verifies the access key and returns a signed token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindJSON(c, &req) {
		return
	}
	log := logger.Enrich(c.Request.Context(), logger.GetGinLogger(c))

	if err := h.keys.Verify(req.Name, req.Key); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn("Rejected access key", zap.String("viewer", req.Name))
			h.Unauthorized(c, "Invalid viewer name or access key")
			return
		}
		h.HandleError(c, err)
		return
	}

	token, err := h.jwt.Issue(req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	log.Info("Issued viewer token", zap.String("viewer", req.Name), zap.Time("expires_at", token.ExpiresAt))
	h.Success(c, token)
}
