package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-portfolio-backend/internal/delivery/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func rateLimitedRouter(limit int) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Limit:     limit,
		Window:    time.Minute,
		KeyPrefix: "rl:test:" + time.Now().Format(time.RFC3339Nano) + ":",
	}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitInMemory(t *testing.T) {
	t.Run("Should allow requests within the budget", func(t *testing.T) {
		router := rateLimitedRouter(3)

		for i := 0; i < 3; i++ {
			w := get(router, "198.51.100.7")
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := get(router, "198.51.100.7")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("Should track each client separately", func(t *testing.T) {
		router := rateLimitedRouter(1)

		assert.Equal(t, http.StatusOK, get(router, "198.51.100.8").Code)
		assert.Equal(t, http.StatusTooManyRequests, get(router, "198.51.100.8").Code)
		// A different IP still has its own budget
		assert.Equal(t, http.StatusOK, get(router, "198.51.100.9").Code)
	})

	t.Run("Should expose the remaining budget", func(t *testing.T) {
		router := rateLimitedRouter(5)

		w := get(router, "198.51.100.10")
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})
}
