package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, whitelist map[string]struct{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	limit, err := LimiterMiddleware(2, "M", whitelist)
	require.NoError(t, err)

	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/ping", limit, func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doGet(r http.Handler, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	r.ServeHTTP(w, req)
	return w
}

func TestLimiterMiddleware(t *testing.T) {
	r := newTestEngine(t, nil)

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1000").Code)
	w := doGet(r, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "err_limit_exceeded")

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.2:1000").Code)
}

func TestLimiterMiddlewareWhitelist(t *testing.T) {
	r := newTestEngine(t, map[string]struct{}{"10.0.0.1": {}})
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1000").Code)
	}
}

func TestLimiterMiddlewareBadPeriod(t *testing.T) {
	_, err := LimiterMiddleware(2, "W", nil)
	assert.Error(t, err)
}

func TestCORSMiddleware(t *testing.T) {
	r := newTestEngine(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
