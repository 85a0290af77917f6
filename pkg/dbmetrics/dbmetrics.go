// Package dbmetrics wraps *sql.DB so that every query is timed and the
// connection pool state is published as Prometheus gauges.
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DBExecutor is the query surface repositories depend on.
// Both *sql.DB and *DB satisfy it.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Recorder receives query timings and pool statistics.
type Recorder interface {
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBConnections(open, inUse, idle int)
}

// DefaultStatsInterval is how often pool statistics are collected.
const DefaultStatsInterval = 15 * time.Second

// DB is a *sql.DB that reports query durations.
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap wraps db and starts collecting pool stats every interval until stop is closed.
func Wrap(db *sql.DB, recorder Recorder, interval time.Duration, stop <-chan struct{}) *DB {
	wrapped := &DB{db: db, recorder: recorder}
	go wrapped.collectStats(interval, stop)
	return wrapped
}

// WrapWithDefault is Wrap with DefaultStatsInterval.
func WrapWithDefault(db *sql.DB, recorder Recorder, stop <-chan struct{}) *DB {
	return Wrap(db, recorder, DefaultStatsInterval, stop)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe(query, time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe(query, time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe(query, time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *DB) observe(query string, started time.Time) {
	d.recorder.ObserveDBQuery(Operation(query), time.Since(started))
}

func (d *DB) collectStats(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.recorder.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
		}
	}
}

// Operation is the lower-cased leading SQL keyword, used as a metric label.
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
