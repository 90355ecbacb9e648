package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const tableName = "reservations"

var columns = []string{
	"id",
	"business_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_id",
	"service_name",
	"duration_minutes",
	"start_at",
	"end_at",
	"status",
	"confirmation_token",
	"cancellation_token",
	"expires_at",
	"notes",
	"confirmed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"business_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_id",
			"service_name",
			"duration_minutes",
			"start_at",
			"end_at",
			"status",
			"confirmation_token",
			"cancellation_token",
			"expires_at",
			"notes",
			"confirmed_at",
		).
		Values(
			res.BusinessID,
			res.Customer.Name,
			res.Customer.Email,
			res.Customer.Phone,
			res.ServiceID,
			res.ServiceName,
			res.DurationMinutes,
			res.Start,
			res.End,
			res.Status,
			res.ConfirmationToken,
			res.CancellationToken,
			res.ExpiresAt,
			res.Notes,
			res.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByConfirmationToken получает бронирование по токену подтверждения
func (r *Repository) GetByConfirmationToken(ctx context.Context, token string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByConfirmationToken", squirrel.Eq{"confirmation_token": token})
}

// GetByCancellationToken получает бронирование по токену отмены
func (r *Repository) GetByCancellationToken(ctx context.Context, token string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByCancellationToken", squirrel.Eq{"cancellation_token": token})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where)

	// Внутри транзакции блокируем строку до смены статуса
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}

	return res, nil
}

// ListOverlapping возвращает активные (pending, confirmed) бронирования бизнеса,
// пересекающие интервал [from, to)
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listOverlappingQuery(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, "ListOverlapping")
}

// ListByBusiness получает бронирования бизнеса с фильтрацией
//
// Примеры использования:
//
// 1. Все бронирования бизнеса:
//    filter := domain.ReservationFilter{BusinessID: 1}
//
// 2. Подтверждённые бронирования за неделю:
//    status := domain.StatusConfirmed
//    filter := domain.ReservationFilter{BusinessID: 1, From: &monday, To: &nextMonday, Status: &status}
func (r *Repository) ListByBusiness(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"business_id": filter.BusinessID}).
		OrderBy("start_at ASC", "id ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, "ListByBusiness")
}

// UpdateStatus переводит бронирование в новый статус
// Для confirmed и cancelled проставляется соответствующая отметка времени
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, at time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusConfirmed:
		builder = builder.Set("confirmed_at", at)
	case domain.StatusCancelled:
		builder = builder.Set("cancelled_at", at)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ExpirePending помечает просроченными все pending бронирования с expires_at <= now
// Возвращает ID обновлённых бронирований
func (r *Repository) ExpirePending(ctx context.Context, now time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := expirePendingQuery(now)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpirePending - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpirePending - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

// LockBusiness берёт транзакционную advisory-блокировку бизнеса
// Сериализует создание и отмену бронирований одного бизнеса, разные бизнесы не конкурируют
func (r *Repository) LockBusiness(ctx context.Context, businessID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrTransactionRequired
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", businessID); err != nil {
		return fmt.Errorf("%w: LockBusiness - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// listOverlappingQuery интервалы полуоткрытые: [start_at, end_at) пересекает [from, to),
// если start_at < to и end_at > from
func listOverlappingQuery(ctx context.Context, businessID int64, from, to time.Time) (string, []interface{}, error) {
	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return builder.ToSql()
}

func expirePendingQuery(now time.Time) (string, []interface{}, error) {
	return psqlbuilder.Update(tableName).
		Set("status", domain.StatusExpired).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.NotEq{"expires_at": nil}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		Suffix("RETURNING id").
		ToSql()
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.BusinessID,
		&res.Customer.Name,
		&res.Customer.Email,
		&res.Customer.Phone,
		&res.ServiceID,
		&res.ServiceName,
		&res.DurationMinutes,
		&res.Start,
		&res.End,
		&res.Status,
		&res.ConfirmationToken,
		&res.CancellationToken,
		&res.ExpiresAt,
		&res.Notes,
		&res.ConfirmedAt,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows, op string) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
		}
		result = append(result, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}
