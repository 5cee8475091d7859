package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedQueue int64

func (q fixedQueue) Len(context.Context) (int64, error) { return int64(q), nil }

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func serveSystem(h *SystemHandler, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/status", h.Status)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthReportsDependencies(t *testing.T) {
	h := NewSystemHandler(map[string]Probe{"postgres": up, "redis": up}, nil, zerolog.Nop())
	w := serveSystem(h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var report healthReport
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, report.Checks)
}

func TestHealthDegradedWhenProbeFails(t *testing.T) {
	h := NewSystemHandler(map[string]Probe{"postgres": up, "redis": down}, nil, zerolog.Nop())
	w := serveSystem(h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var report healthReport
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &report))
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "down", report.Checks["redis"])
}

func TestStatusIncludesMailQueue(t *testing.T) {
	h := NewSystemHandler(map[string]Probe{"redis": up}, fixedQueue(4), zerolog.Nop())
	w := serveSystem(h, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var status systemStatus
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &status))
	require.NotNil(t, status.MailQueued)
	assert.Equal(t, int64(4), *status.MailQueued)
	assert.True(t, status.DependencyOK)
	assert.Positive(t, status.Goroutines)
}
