package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure конфликт сериализации или deadlock, операцию можно повторить
	ErrSerializationFailure = errors.New("txmanager: serialization failure")
)

// Beginner источник транзакций, реализуется *dbmetrics.DB
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db Beginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db Beginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return classify(fmt.Errorf("%w: %w", ErrBeginTx, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return classify(err)
	}

	if err = tx.Commit(); err != nil {
		return classify(fmt.Errorf("%w: %w", ErrCommitTx, err))
	}

	return nil
}

// IsRetryable true для конфликтов сериализации и deadlock'ов PostgreSQL
func IsRetryable(err error) bool {
	if errors.Is(err, ErrSerializationFailure) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	code := string(pqErr.Code)
	return code == pgerrcode.SerializationFailure || code == pgerrcode.DeadlockDetected
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrSerializationFailure) {
		return err
	}
	if IsRetryable(err) {
		return fmt.Errorf("%w: %w", ErrSerializationFailure, err)
	}
	return err
}
