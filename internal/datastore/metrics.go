// Package datastore: Prometheus instrumentation for the GORM logger.
package datastore

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors the GormLogger records against.
// A nil *Metrics is valid everywhere it's used (GormLogger checks for it),
// so stores that don't care about metrics can simply omit it.
type Metrics struct {
	dbOperations      *prometheus.CounterVec
	dbOperationErrors *prometheus.CounterVec
	dbOperationTime   *prometheus.HistogramVec
	queryResultSize   *prometheus.HistogramVec

	connectionsActive prometheus.Gauge
	connectionsIdle   prometheus.Gauge
	databaseSizeBytes prometheus.Gauge
}

// NewMetrics registers the datastore collectors against reg and returns a
// Metrics ready to hand to NewGormLogger. Grounded on the GORM-logger metrics
// shape the teacher's now-removed internal/observability/metrics package
// exposed to its datastore logger.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dbOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "operations_total",
			Help:      "Total database operations by operation, table, and outcome.",
		}, []string{"operation", "table", "status"}),
		dbOperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "operation_errors_total",
			Help:      "Total database operation errors by operation, table, and reason.",
		}, []string{"operation", "table", "reason"}),
		dbOperationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "operation_duration_seconds",
			Help:      "Database operation latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "table"}),
		queryResultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "query_result_rows",
			Help:      "Rows affected or returned per query.",
			Buckets:   []float64{0, 1, 5, 25, 100, 500, 2500},
		}, []string{"operation", "table"}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "connections_active",
			Help:      "Active connections in the database connection pool.",
		}),
		connectionsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "connections_idle",
			Help:      "Idle connections in the database connection pool.",
		}),
		databaseSizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wxcore",
			Subsystem: "datastore",
			Name:      "database_size_bytes",
			Help:      "On-disk size of the database file, where applicable.",
		}),
	}

	collectors := []prometheus.Collector{
		m.dbOperations, m.dbOperationErrors, m.dbOperationTime, m.queryResultSize,
		m.connectionsActive, m.connectionsIdle, m.databaseSizeBytes,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetConnectionPoolStats records the current open/idle connection counts.
func (m *Metrics) SetConnectionPoolStats(active, idle int) {
	if m == nil {
		return
	}
	m.connectionsActive.Set(float64(active))
	m.connectionsIdle.Set(float64(idle))
}

// SetDatabaseSizeBytes records the current on-disk database size.
func (m *Metrics) SetDatabaseSizeBytes(size int64) {
	if m == nil {
		return
	}
	m.databaseSizeBytes.Set(float64(size))
}

// RecordDbOperation records a completed operation's outcome.
func (m *Metrics) RecordDbOperation(operation, table, status string) {
	if m == nil {
		return
	}
	m.dbOperations.WithLabelValues(operation, table, status).Inc()
}

// RecordDbOperationError records an operation that failed, with a coarse
// reason label for alerting/dashboards.
func (m *Metrics) RecordDbOperationError(operation, table, reason string) {
	if m == nil {
		return
	}
	m.dbOperationErrors.WithLabelValues(operation, table, reason).Inc()
}

// RecordDbOperationDuration records how long an operation took, in seconds.
func (m *Metrics) RecordDbOperationDuration(operation, table string, seconds float64) {
	if m == nil {
		return
	}
	m.dbOperationTime.WithLabelValues(operation, table).Observe(seconds)
}

// RecordQueryResultSize records the row count a query returned or affected.
func (m *Metrics) RecordQueryResultSize(operation, table string, rows int) {
	if m == nil {
		return
	}
	if rows < 0 {
		rows = 0
	}
	m.queryResultSize.WithLabelValues(operation, table).Observe(float64(rows))
}

// parseSQLOperation extracts a coarse (operation, table) label pair from a
// logged SQL statement, e.g. "INSERT INTO inference_records ..." ->
// ("insert", "inference_records"). Best-effort: malformed or unrecognized
// statements fall back to "unknown".
func parseSQLOperation(sql string) (operation, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown", "unknown"
	}

	operation = strings.ToLower(fields[0])

	switch operation {
	case "select", "delete":
		table = tableAfter(fields, "from")
	case "insert":
		table = tableAfter(fields, "into")
	case "update":
		if len(fields) > 1 {
			table = cleanTableName(fields[1])
		}
	default:
		table = "unknown"
	}

	if table == "" {
		table = "unknown"
	}

	return operation, table
}

// tableAfter returns the cleaned token immediately following the first
// case-insensitive occurrence of keyword in fields.
func tableAfter(fields []string, keyword string) string {
	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i+1 < len(fields) {
			return cleanTableName(fields[i+1])
		}
	}
	return ""
}

// cleanTableName strips quoting/backticks GORM wraps identifiers in.
func cleanTableName(s string) string {
	return strings.Trim(s, "`\"' ")
}

// categorizeError buckets a GORM error into a coarse reason label for the
// operation-errors counter.
func categorizeError(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate"):
		return "unique_violation"
	case strings.Contains(msg, "locked") || strings.Contains(msg, "busy"):
		return "locked"
	case strings.Contains(msg, "constraint"):
		return "constraint_violation"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "timeout"):
		return "connection"
	default:
		return "gorm_error"
	}
}
