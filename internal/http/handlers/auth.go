package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Access   string `json:"access"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	accessToken, err := ah.authService.Login(c.Request.Context(), req.Access, req.Password)
	if err != nil {
		response.RespondServiceError(c, "login_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": accessToken,
		"access":       types.Access(normalizeKey(req.Access)),
		"expires_in":   int(ah.authService.GetSessionTTL().Seconds()),
	})
}

// Session echoes the caller's access, letting clients validate a stored token.
func (ah *AuthHandler) Session(c *gin.Context) {
	response.RespondOK(c, gin.H{"access": services.SessionAccess(c.Request.Context())})
}

func (ah *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	access := types.Access(normalizeKey(c.Param("access")))
	if err := ah.authService.ChangePassword(c.Request.Context(), access, req.Password); err != nil {
		response.RespondServiceError(c, "password_change_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "access": access})
}
