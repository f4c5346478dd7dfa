package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizzy-api/pkg/auth"
	"github.com/yourusername/quizzy-api/pkg/auth/manager"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *manager.SessionCookieManager) {
	t.Helper()

	jwtService, err := auth.NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)
	cookieManager := manager.NewSessionCookieManager()
	authMiddleware := NewAuthMiddleware(jwtService, cookieManager)

	router := gin.New()
	router.GET("/protected", authMiddleware.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	return router, jwtService, cookieManager
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_CookieToken(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)

	token, err := jwtService.Issue(42, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: manager.SessionCookie, Value: manager.BearerPrefix + token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestRequireAuth_BearerHeaderFallback(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)

	token, err := jwtService.Issue(42, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_BadHeaderFormat(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)

	token, err := jwtService.Issue(42, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.SessionClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	token, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	other, err := auth.NewJWTService("other-secret", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue(42, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_invalid")
}

func TestExtractUintParam(t *testing.T) {
	router := gin.New()
	router.GET("/items/:id", ExtractUintParam("id", "item_id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"item_id": c.MustGet("item_id")})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/items/42", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/items/abc", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
