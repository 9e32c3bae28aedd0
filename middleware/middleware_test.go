package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"junkbutler/config"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": c.GetString("adminEmail")})
	})
	return r
}

func get(r *gin.Engine, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerClient(t *testing.T) {
	r := newRouter(RateLimitMiddleware(2))

	assert.Equal(t, http.StatusOK, get(r).Code)
	assert.Equal(t, http.StatusOK, get(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r).Code)

	// another client has its own budget
	assert.Equal(t, http.StatusOK, get(r, "X-Forwarded-For", "192.168.1.9, 10.0.0.1").Code)
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	store := newRateLimiterStore(5)
	now := time.Now()
	store.getLimiter("a", now.Add(-20*time.Minute))
	store.getLimiter("b", now)

	store.evict(now, 10*time.Minute)
	assert.NotContains(t, store.limiters, "a")
	assert.Contains(t, store.limiters, "b")
}

func TestJWTAuthAdminMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newRouter(JWTAuthAdminMiddleware())

	assert.Equal(t, http.StatusUnauthorized, get(r).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer abc").Code)

	token, err := utils.GenerateAdminToken("ops@junkbutler.com", time.Hour)
	require.NoError(t, err)
	w := get(r, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@junkbutler.com")

	expired, err := utils.GenerateAdminToken("ops@junkbutler.com", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+expired).Code)
}

func TestRequestLoggerKeepsRequestID(t *testing.T) {
	r := newRouter(RequestLogger(zap.NewNop()))

	w := get(r, "X-Request-ID", "req-42")
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = get(r)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
