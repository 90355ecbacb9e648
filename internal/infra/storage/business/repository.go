package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации бизнеса: услуги, расписания, блокировки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнеса
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig собирает полную конфигурацию бизнеса
func (r *Repository) GetConfig(ctx context.Context, businessID int64) (*domain.BusinessConfig, error) {
	cfg, err := r.getBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if cfg.Services, err = r.ListServices(ctx, businessID, false); err != nil {
		return nil, err
	}
	if cfg.Weekly, err = r.getWeekly(ctx, businessID); err != nil {
		return nil, err
	}
	if cfg.Special, err = r.ListSpecialSchedules(ctx, businessID); err != nil {
		return nil, err
	}
	if cfg.Blocked, err = r.ListBlockedDates(ctx, businessID); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Repository) getBusiness(ctx context.Context, businessID int64) (*domain.BusinessConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"max_reservations_per_slot",
		"default_service_duration",
		"slot_granularity_minutes",
		"confirmation_window_minutes",
		"phone_required",
		"admin_email",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.BusinessConfig
	var windowMinutes int
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.Name,
		&cfg.Timezone,
		&cfg.MaxReservationsPerSlot,
		&cfg.DefaultServiceDuration,
		&cfg.SlotGranularityMinutes,
		&windowMinutes,
		&cfg.PhoneRequired,
		&cfg.AdminEmail,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getBusiness - scan business: %w", ErrScanRow, err)
	}

	cfg.ConfirmationWindow = time.Duration(windowMinutes) * time.Minute
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// CreateBusiness создает бизнес вместе с услугами и недельным расписанием
// Вызывать внутри транзакции
func (r *Repository) CreateBusiness(ctx context.Context, cfg *domain.BusinessConfig) (*domain.BusinessConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("businesses").
		Columns(
			"name",
			"timezone",
			"max_reservations_per_slot",
			"default_service_duration",
			"slot_granularity_minutes",
			"confirmation_window_minutes",
			"phone_required",
			"admin_email",
		).
		Values(
			cfg.Name,
			cfg.Timezone,
			cfg.MaxReservationsPerSlot,
			cfg.DefaultServiceDuration,
			cfg.SlotGranularityMinutes,
			int(cfg.ConfirmationWindow/time.Minute),
			cfg.PhoneRequired,
			cfg.AdminEmail,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBusiness - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBusiness - execute insert: %w", ErrExecQuery, err)
	}
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	if err := r.saveServices(ctx, cfg); err != nil {
		return nil, err
	}
	if err := r.replaceWeekly(ctx, cfg.ID, cfg.Weekly); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig обновляет параметры бизнеса, услуги и недельное расписание
// Особые расписания и блокировки управляются отдельными методами
// Вызывать внутри транзакции
func (r *Repository) SaveConfig(ctx context.Context, cfg *domain.BusinessConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("businesses").
		Set("name", cfg.Name).
		Set("timezone", cfg.Timezone).
		Set("max_reservations_per_slot", cfg.MaxReservationsPerSlot).
		Set("default_service_duration", cfg.DefaultServiceDuration).
		Set("slot_granularity_minutes", cfg.SlotGranularityMinutes).
		Set("confirmation_window_minutes", int(cfg.ConfirmationWindow/time.Minute)).
		Set("phone_required", cfg.PhoneRequired).
		Set("admin_email", cfg.AdminEmail).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": cfg.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SaveConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SaveConfig - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SaveConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBusinessNotFound
	}

	if err := r.saveServices(ctx, cfg); err != nil {
		return err
	}

	return r.replaceWeekly(ctx, cfg.ID, cfg.Weekly)
}

// ListServices получает услуги бизнеса
func (r *Repository) ListServices(ctx context.Context, businessID int64, activeOnly bool) ([]domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "business_id", "name", "duration_minutes", "price", "active").
		From("services").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("name ASC", "id ASC")

	if activeOnly {
		builder = builder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMinutes, &s.Price, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan service: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// saveServices обновляет существующие услуги, вставляет новые (ID = 0)
// и деактивирует отсутствующие в списке
// Услуги не удаляются: на них ссылаются прошлые бронирования
func (r *Repository) saveServices(ctx context.Context, cfg *domain.BusinessConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	keep := make([]int64, 0, len(cfg.Services))

	for i := range cfg.Services {
		s := &cfg.Services[i]

		if s.ID != 0 {
			query, args, err := psqlbuilder.Update("services").
				Set("name", s.Name).
				Set("duration_minutes", s.DurationMinutes).
				Set("price", s.Price).
				Set("active", s.Active).
				Set("updated_at", squirrel.Expr("NOW()")).
				Where(squirrel.Eq{"id": s.ID, "business_id": cfg.ID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: saveServices - build update query: %v", ErrBuildQuery, err)
			}

			result, err := executor.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("%w: saveServices - execute update: %w", ErrExecQuery, err)
			}
			if n, err := result.RowsAffected(); err == nil && n > 0 {
				keep = append(keep, s.ID)
				continue
			}
			// Чужой или удалённый ID: создаём заново
		}

		query, args, err := psqlbuilder.Insert("services").
			Columns("business_id", "name", "duration_minutes", "price", "active").
			Values(cfg.ID, s.Name, s.DurationMinutes, s.Price, s.Active).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: saveServices - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
			return fmt.Errorf("%w: saveServices - execute insert: %w", ErrExecQuery, err)
		}
		s.BusinessID = cfg.ID
		keep = append(keep, s.ID)
	}

	builder := psqlbuilder.Update("services").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"business_id": cfg.ID})
	if len(keep) > 0 {
		builder = builder.Where(squirrel.NotEq{"id": keep})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: saveServices - build deactivate query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: saveServices - execute deactivate: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getWeekly(ctx context.Context, businessID int64) (domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_minute", "end_minute").
		From("weekly_ranges").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC", "start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWeekly - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	weekly := domain.WeeklySchedule{}
	for rows.Next() {
		var day time.Weekday
		var tr domain.TimeRange
		if err := rows.Scan(&day, &tr.Start, &tr.End); err != nil {
			return nil, fmt.Errorf("%w: getWeekly - scan range: %v", ErrScanRow, err)
		}
		weekly[day] = append(weekly[day], tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWeekly - rows error: %w", ErrScanRow, err)
	}

	return weekly, nil
}

func (r *Repository) replaceWeekly(ctx context.Context, businessID int64, weekly domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_ranges").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekly - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWeekly - execute delete: %w", ErrExecQuery, err)
	}

	insert := psqlbuilder.Insert("weekly_ranges").
		Columns("business_id", "weekday", "start_minute", "end_minute")

	count := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, tr := range weekly[day] {
			insert = insert.Values(businessID, int(day), tr.Start, tr.End)
			count++
		}
	}
	if count == 0 {
		return nil
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekly - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWeekly - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListBlockedDates получает заблокированные даты бизнеса по возрастанию
func (r *Repository) ListBlockedDates(ctx context.Context, businessID int64) ([]domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("business_id", "blocked_date", "reason").
		From("blocked_dates").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("blocked_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.BlockedDate, 0)
	for rows.Next() {
		var b domain.BlockedDate
		if err := rows.Scan(&b.BusinessID, &b.Date, &b.Reason); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// AddBlockedDate блокирует дату; повторная блокировка обновляет причину
func (r *Repository) AddBlockedDate(ctx context.Context, blocked domain.BlockedDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("business_id", "blocked_date", "reason").
		Values(blocked.BusinessID, domain.DateKey(blocked.Date), blocked.Reason).
		Suffix("ON CONFLICT (business_id, blocked_date) DO UPDATE SET reason = EXCLUDED.reason").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddBlockedDate - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// RemoveBlockedDate снимает блокировку даты
func (r *Repository) RemoveBlockedDate(ctx context.Context, businessID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"business_id": businessID, "blocked_date": domain.DateKey(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}

// ListSpecialSchedules получает особые расписания бизнеса по возрастанию даты
func (r *Repository) ListSpecialSchedules(ctx context.Context, businessID int64) ([]domain.SpecialSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "schedule_date", "start_minute", "end_minute", "active").
		From("special_schedules").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("schedule_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialSchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialSchedules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.SpecialSchedule, 0)
	for rows.Next() {
		var s domain.SpecialSchedule
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Date, &s.Range.Start, &s.Range.End, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: ListSpecialSchedules - scan row: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSpecialSchedules - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// AddSpecialSchedule создает особое расписание на дату
// Второе активное расписание на ту же дату отклоняется уникальным индексом
func (r *Repository) AddSpecialSchedule(ctx context.Context, schedule *domain.SpecialSchedule) (*domain.SpecialSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("special_schedules").
		Columns("business_id", "schedule_date", "start_minute", "end_minute", "active").
		Values(schedule.BusinessID, domain.DateKey(schedule.Date), schedule.Range.Start, schedule.Range.End, schedule.Active).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddSpecialSchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&schedule.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSpecialSchedule
		}
		return nil, fmt.Errorf("%w: AddSpecialSchedule - execute insert: %w", ErrExecQuery, err)
	}

	return schedule, nil
}

// RemoveSpecialSchedule удаляет особое расписание бизнеса
func (r *Repository) RemoveSpecialSchedule(ctx context.Context, businessID, scheduleID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("special_schedules").
		Where(squirrel.Eq{"id": scheduleID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveSpecialSchedule - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveSpecialSchedule - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveSpecialSchedule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSpecialScheduleNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
