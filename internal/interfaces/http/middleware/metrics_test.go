package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	handler, err := HTTPMetrics(mp.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(handler)
	router.GET("/api/v1/purchases/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/purchases/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/purchases/2", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	byName := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			byName[m.Name] = m.Data
		}
	}

	total, ok := byName["http_server_request_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, total.DataPoints, 1)
	dp := total.DataPoints[0]
	assert.Equal(t, int64(2), dp.Value)
	route, _ := dp.Attributes.Value(telemetry.AttrRoute)
	assert.Equal(t, "/api/v1/purchases/:id", route.AsString())
	status, _ := dp.Attributes.Value(telemetry.AttrStatus)
	assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())

	hist, ok := byName["http_server_request_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)

	active, ok := byName["http_server_active_requests"].(metricdata.Sum[int64])
	require.True(t, ok)
	for _, p := range active.DataPoints {
		assert.Equal(t, int64(0), p.Value)
	}
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	handler, err := HTTPMetrics(nil)
	require.NoError(t, err)

	router := gin.New()
	router.Use(handler)
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
}
