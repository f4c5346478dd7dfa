package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizzy-api/pkg/auth"
	"github.com/yourusername/quizzy-api/pkg/auth/manager"
)

// AuthMiddleware guards routes behind a valid session token.
type AuthMiddleware struct {
	jwtService    *auth.JWTService
	cookieManager *manager.SessionCookieManager
}

// NewAuthMiddleware creates the middleware. The cookie manager may be nil,
// in which case only the Authorization header is consulted.
func NewAuthMiddleware(jwtService *auth.JWTService, cookieManager *manager.SessionCookieManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:    jwtService,
		cookieManager: cookieManager,
	}
}

// RequireAuth reads the session token from the cookie, falling back to the
// Authorization header, and sets user_id in the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.extractToken(c)
		if !ok {
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "error_type": "token_expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "error_type": "token_invalid"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// extractToken resolves the token from cookie or header. On failure it writes
// the response and aborts.
func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if m.cookieManager != nil {
		if token, err := m.cookieManager.GetSessionToken(c.Request); err == nil {
			return token, true
		}
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		c.Abort()
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
		c.Abort()
		return "", false
	}
	return parts[1], true
}
