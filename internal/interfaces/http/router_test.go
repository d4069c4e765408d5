package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httpiface "github.com/x-ordo/evidentia/internal/interfaces/http"
	"github.com/x-ordo/evidentia/internal/interfaces/http/handlers"
	"github.com/x-ordo/evidentia/internal/interfaces/http/middleware"
)

func TestRouter_EchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := httpiface.NewRouter(httpiface.RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test", nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_MintsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := httpiface.NewRouter(httpiface.RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test", nil),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := httpiface.NewRouter(httpiface.RouterConfig{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
