package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewLedgerMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestLedgerMetrics(t *testing.T) {
	reader, mp := newTestMeter(t)
	m, err := telemetry.NewLedgerMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)
	ctx := context.Background()

	m.PaymentRecorded(ctx, "purchase", "create")
	m.PaymentRecorded(ctx, "purchase", "create")
	m.PaymentRecorded(ctx, "company_sale", "remove")
	m.OverpaymentRejected(ctx, "purchase")
	m.CascadeDeleted(ctx, "purchase")
	m.ObserveTransaction(ctx, 30*time.Millisecond, "commit")
	m.ObserveTransaction(ctx, 5*time.Millisecond, "rollback")

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, data["ledger_payments_total"],
		telemetry.AttrLedger.String("purchase"), telemetry.AttrOperation.String("create")))
	assert.Equal(t, int64(1), sumFor(t, data["ledger_payments_total"],
		telemetry.AttrLedger.String("company_sale"), telemetry.AttrOperation.String("remove")))
	assert.Equal(t, int64(1), sumFor(t, data["ledger_overpayment_rejections_total"],
		telemetry.AttrLedger.String("purchase")))
	assert.Equal(t, int64(1), sumFor(t, data["cascade_deletes_total"],
		telemetry.AttrRoot.String("purchase")))

	hist, ok := data["uow_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}
