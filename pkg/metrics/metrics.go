package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label outcome для reservations_total
const (
	OutcomeCreated       = "created"
	OutcomeSlotTaken     = "slot_taken"
	OutcomeConflictRetry = "conflict_retry"
	OutcomeRejected      = "rejected"
	OutcomeFailed        = "failed"
	OutcomeConfirmed     = "confirmed"
	OutcomeCancelled     = "cancelled"
	OutcomeExpired       = "expired"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	reservationsTotal *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registerer
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"app": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"service", "method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"service", "method", "path"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"service", "operation"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"service"}),
		dbInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"service"}),
		dbIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"service"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"service"}),
		reservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Reservation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_published_total",
			Help:        "Notification messages published by type and result",
			ConstLabels: constLabels,
		}, []string{"type", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.reservationsTotal,
		m.notificationsSent,
	)

	return m
}

// RecordHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// RecordDBQuery учитывает запрос к БД
func (m *Metrics) RecordDBQuery(service, operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(service, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(service string, stats sql.DBStats) {
	m.dbOpenConnections.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.dbInUse.WithLabelValues(service).Set(float64(stats.InUse))
	m.dbIdle.WithLabelValues(service).Set(float64(stats.Idle))
	m.dbWaitCount.WithLabelValues(service).Set(float64(stats.WaitCount))
}

// RecordReservation учитывает исход операции с бронированием (Outcome*)
func (m *Metrics) RecordReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservationsTotal.WithLabelValues(outcome).Inc()
}

// RecordNotification учитывает публикацию уведомления
func (m *Metrics) RecordNotification(messageType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notificationsSent.WithLabelValues(messageType, result).Inc()
}
