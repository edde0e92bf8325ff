package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func getFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerClient(t *testing.T) {
	router := limitedRouter(NewRateLimiter(3, 60).RateLimit())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, getFrom(router, "192.0.2.1:1000").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, getFrom(router, "192.0.2.1:1000").Code)

	// another client keeps its own window
	assert.Equal(t, http.StatusOK, getFrom(router, "192.0.2.2:1000").Code)
}

func TestStrictRateLimiter(t *testing.T) {
	router := limitedRouter(NewStrictRateLimiter())

	allowed := 0
	for i := 0; i < 10; i++ {
		if getFrom(router, "192.0.2.1:1000").Code == http.StatusOK {
			allowed++
		}
	}
	assert.LessOrEqual(t, allowed, 5)
	assert.GreaterOrEqual(t, allowed, 1)
}
