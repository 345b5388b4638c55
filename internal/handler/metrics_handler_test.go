package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"database": PingerFunc(func(context.Context) error { return nil }),
	})
	degraded := NewMetricsHandler(nil, map[string]Pinger{
		"database": PingerFunc(func(context.Context) error { return nil }),
		"redis":    PingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	r := gin.New()
	r.GET("/ready", healthy.Ready)
	r.GET("/degraded", degraded.Ready)
	r.GET("/metrics", degraded.Prometheus)
	r.GET("/health", healthy.Health)

	w := perform(r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ready"`)

	w = perform(r, http.MethodGet, "/degraded", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	assert.Equal(t, http.StatusServiceUnavailable, perform(r, http.MethodGet, "/metrics", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", nil).Code)
}

func TestActorFromContextDefaultsToViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	actor := actorFromContext(c)
	assert.Equal(t, "VIEWER", string(actor.Role))
	assert.Empty(t, actor.UserID)
}
