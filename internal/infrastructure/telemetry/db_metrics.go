package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

// DBMetrics records statement latency per table and exposes connection pool
// usage as observable gauges.
type DBMetrics struct {
	queryDuration *Histogram
	slowQueries   *Counter
	slowThreshold time.Duration
}

// RegisterDBMetrics creates the database instruments on meter and hooks
// them into db. sqlDB, when non-nil, backs the pool gauges.
func RegisterDBMetrics(db *gorm.DB, sqlDB *sql.DB, meter metric.Meter, slowThreshold time.Duration) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if slowThreshold == 0 {
		slowThreshold = 200 * time.Millisecond
	}

	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueries, err := NewCounter(meter, "db_slow_query_total", "Statements slower than the slow query threshold", "{query}")
	if err != nil {
		return nil, err
	}
	m := &DBMetrics{queryDuration: queryDuration, slowQueries: slowQueries, slowThreshold: slowThreshold}

	if sqlDB != nil {
		if err := registerPoolGauges(meter, sqlDB); err != nil {
			return nil, err
		}
	}
	if err := registerAround(db, "db_metrics", markQueryStart, m.record); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DBMetrics) record(tx *gorm.DB) {
	elapsed, ok := queryElapsed(tx)
	if !ok {
		return
	}
	ctx := tx.Statement.Context
	table := AttrDBTable.String(tx.Statement.Table)
	m.queryDuration.RecordDuration(ctx, elapsed, table)
	if elapsed > m.slowThreshold {
		m.slowQueries.Inc(ctx, table)
	}
}

func registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		return nil
	}, conns, maxConns)
	return err
}
