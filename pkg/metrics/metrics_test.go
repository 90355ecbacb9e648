package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.RecordHTTPRequest("test", "GET", "/api/v1/reservations/{reservationId}", 200, 10*time.Millisecond)
	m.RecordDBQuery("test", "select", time.Millisecond, nil)
	m.RecordDBQuery("test", "select", time.Millisecond, sql.ErrNoRows)
	m.RecordDBQuery("test", "insert", time.Millisecond, errors.New("boom"))
	m.SetDBPoolStats("test", sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})
	m.RecordReservation("created")
	m.RecordReservation("created")
	m.RecordNotification("reservation_created", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("test", "GET", "/api/v1/reservations/{reservationId}", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("test", "select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("test", "insert")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbOpenConnections.WithLabelValues("test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservationsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsSent.WithLabelValues("reservation_created", "ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordReservation("created")
		m.RecordNotification("reservation_created", nil)
	})
}
