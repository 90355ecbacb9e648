package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
	err   error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestDoSerializable_Commit(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{tx: tx}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, db.opts.Isolation)
}

func TestDo_RollbackOnError(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{tx: tx})
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.calls)
}

func TestDo_SerializationFailure(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{tx: tx})
	pqErr := &pq.Error{Code: pq.ErrorCode(pgerrcode.SerializationFailure)}

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("insert: %w", pqErr)
	})

	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.True(t, IsRetryable(err))
	assert.True(t, tx.rolledBack)
}

func TestDo_CommitDeadlock(t *testing.T) {
	tx := &fakeTx{commitErr: &pq.Error{Code: pq.ErrorCode(pgerrcode.DeadlockDetected)}}
	m := NewTransactionManager(&fakeBeginner{tx: tx})

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommitTx)
	assert.ErrorIs(t, err, ErrSerializationFailure)
}

func TestIsRetryable_OtherErrors(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(&pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}))
}
