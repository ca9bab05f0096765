package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth accepts any valid session token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected session token", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAccess lets through sessions holding one of allowed. Admin is always
// allowed.
func (am *AuthMiddleware) RequireAccess(allowed ...types.Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := services.SessionAccess(c.Request.Context())
		if access == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
			return
		}
		if access == types.AccessAdmin {
			c.Next()
			return
		}
		for _, a := range allowed {
			if a == access {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
	}
}

// extractToken reads the bearer header, falling back to the token query
// parameter used by EventSource clients.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
