package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DefaultPoolStatsInterval период сбора статистики connection pool
const DefaultPoolStatsInterval = 15 * time.Second

// Recorder принимает метрики запросов к БД
// Реализуется *metrics.Metrics
type Recorder interface {
	RecordDBQuery(service, operation string, duration time.Duration, err error)
	SetDBPoolStats(service string, stats sql.DBStats)
}

// DB обёртка над *sql.DB, замеряющая длительность запросов
// С nil recorder работает как прозрачный прокси
type DB struct {
	db          *sql.DB
	recorder    Recorder
	serviceName string
}

// Wrap оборачивает *sql.DB без фонового сбора статистики пула
func Wrap(db *sql.DB, recorder Recorder, serviceName string) *DB {
	return &DB{db: db, recorder: recorder, serviceName: serviceName}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула
// до закрытия stopCh
func WrapWithDefault(db *sql.DB, recorder Recorder, serviceName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder, serviceName)
	if recorder != nil {
		go wrapped.collectPoolStats(DefaultPoolStatsInterval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходный *sql.DB
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start, row.Err())
	return row
}

// BeginTx начинает транзакцию, запросы внутри которой тоже замеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("BEGIN", start, err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, parent: d}, nil
}

// PingContext проверяет соединение
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) observe(query string, start time.Time, err error) {
	if d.recorder == nil {
		return
	}
	d.recorder.RecordDBQuery(d.serviceName, operationFromQuery(query), time.Since(start), err)
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.recorder.SetDBPoolStats(d.serviceName, d.db.Stats())
		case <-stopCh:
			return
		}
	}
}

// Tx обёртка над *sql.Tx
type Tx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe(query, start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe(query, start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(query, start, row.Err())
	return row
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.parent.observe("COMMIT", start, err)
	return err
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// operationFromQuery первое слово запроса в нижнем регистре (select, insert, ...)
func operationFromQuery(query string) string {
	q := strings.TrimSpace(query)
	if idx := strings.IndexAny(q, " \n\t("); idx > 0 {
		q = q[:idx]
	}
	if q == "" {
		return "unknown"
	}
	return strings.ToLower(q)
}
