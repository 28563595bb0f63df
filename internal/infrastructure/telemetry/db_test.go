package telemetry_test

import (
	"context"
	"testing"

	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestRegisterDBTracing_TagsStatementSpans(t *testing.T) {
	sr := setupTestTracer(t)
	db := openTestDB(t)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
	}, zaptest.NewLogger(t)))

	ctx, span := telemetry.StartSpan(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	span.End()

	var tagged bool
	for _, s := range sr.Ended() {
		if attrMap(s.Attributes())["db.sql.table"] == "widgets" {
			tagged = true
		}
	}
	assert.True(t, tagged, "expected a statement span tagged with its table")
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{}, zaptest.NewLogger(t)))
	assert.Nil(t, db.Callback().Create().Get("otel_timing:after_create"))
}

func TestRegisterDBMetrics(t *testing.T) {
	reader, mp := newTestMeter(t)
	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = telemetry.RegisterDBMetrics(db, sqlDB, mp.Meter(telemetry.MeterName), 0)
	require.NoError(t, err)

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var got []widget
	require.NoError(t, db.Find(&got).Error)

	data := collect(t, reader)
	hist, ok := data["db_query_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.GreaterOrEqual(t, count, uint64(2))

	gauge, ok := data["db_pool_connections_max"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1), gauge.DataPoints[0].Value)
}

func TestRegisterDBMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.RegisterDBMetrics(openTestDB(t), nil, nil, 0)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}
