package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
)

func TestMetricsCountRequestsAndErrors(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/v1/complaints", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/api/v1/complaints", http.MethodGet, 200, 5*time.Millisecond)
	m.RecordError("/api/v1/complaints/:id", http.MethodPut, "CONFLICT")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/v1/complaints", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues(http.MethodPut, "/api/v1/complaints/:id", "CONFLICT")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
	m.RecordError("/", http.MethodGet, "X")
	m.SubscribeLifecycle(events.NewInMemoryDispatcher())
}

func TestMetricsSubscribeLifecycle(t *testing.T) {
	m := NewMetrics()
	d := events.NewInMemoryDispatcher()
	m.SubscribeLifecycle(d)

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintCreated}))
	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintCanceled}))
	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintCanceled}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.lifecycleTotal.WithLabelValues("complaint_created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lifecycleTotal.WithLabelValues("complaint_canceled")))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordError("/x", http.MethodGet, "NOT_FOUND")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_errors_total")
}

func TestRequestLoggerSetsRequestIDAndRecords(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get(HeaderRequestID))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
