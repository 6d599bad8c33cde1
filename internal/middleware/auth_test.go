package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillup_backend/internal/config"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func authedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return r
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	r := authedRouter(t)

	token, err := util.GenerateJWT("user-1", "asha@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddlewareQueryToken(t *testing.T) {
	r := authedRouter(t)

	token, err := util.GenerateJWT("user-1", "asha@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := authedRouter(t)

	// 无token
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 错误签名
	bad, err := util.GenerateJWT("user-1", "asha@example.com", "other-secret", time.Hour)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
