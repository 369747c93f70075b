package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/productmanager/manager_api/internal/handler"
	"github.com/productmanager/manager_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(limiter *InvalidAuthRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/me", NewJWTMiddleware("secret", limiter).Handle(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handler.ContextUserCode))
	})
	return r
}

func TestJWTMiddleware_AcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateJWT("secret", "U1", "", time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newProtectedRouter(nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestJWTMiddleware_RejectsAndRateLimits(t *testing.T) {
	r := newProtectedRouter(NewInvalidAuthRateLimiter(2, time.Minute))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestInvalidAuthRateLimiter_WindowExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Record("1.2.3.4")
	assert.True(t, rl.Blocked("1.2.3.4"))
	assert.False(t, rl.Blocked("5.6.7.8"))

	now = now.Add(2 * time.Minute)
	assert.False(t, rl.Blocked("1.2.3.4"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"admin.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.example.com:443")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com:443", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
