package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	businessRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/business"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const defaultCreateTimeout = 5 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo  ReservationRepository
	businessRepo     BusinessRepository
	notifier         Notifier
	txManager        TransactionManager
	metrics          MetricsRecorder
	timeProvider     TimeProvider
	timeout          time.Duration
	minNoticeMinutes int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// notifier и metrics могут быть nil
func NewUseCase(
	reservationRepo ReservationRepository,
	businessRepo BusinessRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	timeout time.Duration,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	if timeout <= 0 {
		timeout = defaultCreateTimeout
	}
	return &UseCase{
		reservationRepo:  reservationRepo,
		businessRepo:     businessRepo,
		notifier:         notifier,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		timeout:          timeout,
		minNoticeMinutes: minNoticeMinutes,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Проверка вместимости и вставка выполняются атомарно в сериализуемой транзакции
// под advisory-блокировкой бизнеса; конфликт сериализации повторяется один раз
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: business=%d, service=%v, date=%s, time=%s, byAdmin=%t",
		req.BusinessID, req.ServiceID, req.Date, req.Time, req.ByAdmin)

	// 1. Валидация входных данных
	normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.record(metrics.OutcomeRejected)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию бизнеса
	cfg, err := uc.businessRepo.GetConfig(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateReservation: business id=%d not found", req.BusinessID)
			uc.record(metrics.OutcomeRejected)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateReservation: failed to get config for business id=%d: %v", req.BusinessID, err)
		uc.record(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// 4. Телефон обязателен, если так настроен бизнес
	if cfg.PhoneRequired && req.CustomerPhone == nil {
		uc.logger.Warn("CreateReservation: phone is required by business id=%d", req.BusinessID)
		uc.record(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidPhone)
	}

	// 5. Длительность берётся из услуги, по умолчанию только без услуги
	service, duration, ok := cfg.ResolveDuration(req.ServiceID)
	if !ok {
		uc.logger.Warn("CreateReservation: service id=%v not found in business id=%d", req.ServiceID, req.BusinessID)
		uc.record(metrics.OutcomeRejected)
		return nil, ErrServiceNotFound
	}

	// 6. Бизнес-правила: блокировка даты, часы работы, сетка слотов
	if err := validateBusinessRules(cfg, req, duration); err != nil {
		uc.logger.Warn("CreateReservation: business rules failed: %v", err)
		uc.record(metrics.OutcomeRejected)
		return nil, err
	}

	// 7. Время начала не в прошлом (с учётом минимального уведомления)
	loc := cfg.Location()
	date, _ := domain.ParseDate(req.Date, loc)
	startMinute, _ := types.TimeString(req.Time).Minutes()
	start, end := domain.SlotInterval(date, startMinute, duration, loc)

	if start.Before(now.Add(time.Duration(uc.minNoticeMinutes) * time.Minute)) {
		uc.logger.Warn("CreateReservation: start %s is in the past", start.Format(time.RFC3339))
		uc.record(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %s %s", ErrDateInPast, req.Date, req.Time)
	}

	// 8. Собираем бронирование
	res := uc.buildReservation(cfg, req, service, duration, start, end, now)

	// 9. Атомарно проверяем вместимость и сохраняем, при конфликте повторяем один раз
	created, err := uc.createAtomically(ctx, res, cfg.Capacity(), now)
	if errors.Is(err, ErrConcurrencyConflict) {
		uc.logger.Warn("CreateReservation: concurrency conflict for business=%d at %s, retrying", req.BusinessID, start.Format(time.RFC3339))
		uc.record(metrics.OutcomeConflictRetry)
		created, err = uc.createAtomically(ctx, res, cfg.Capacity(), now)
		if errors.Is(err, ErrConcurrencyConflict) {
			err = fmt.Errorf("%w: slot no longer available, please pick another time", ErrSlotNotAvailable)
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable):
			uc.logger.Warn("CreateReservation: slot not available for business=%d at %s", req.BusinessID, start.Format(time.RFC3339))
			uc.record(metrics.OutcomeSlotTaken)
		default:
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			uc.record(metrics.OutcomeFailed)
		}
		return nil, err
	}

	uc.record(metrics.OutcomeCreated)
	uc.logger.Info("CreateReservation: successfully created reservation id=%d, status=%s", created.ID, created.Status)

	// 10. Уведомления публикуются после коммита, ошибка публикации не откатывает бронь
	if uc.notifier != nil {
		if err := uc.notifier.NotifyCreated(ctx, cfg, created); err != nil {
			uc.logger.Warn("CreateReservation: failed to publish notification for reservation id=%d: %v", created.ID, err)
		}
	}

	return toResponse(created, loc), nil
}

// createAtomically выполняет одну попытку создания брони
func (uc *UseCase) createAtomically(ctx context.Context, res *domain.Reservation, capacity int, now time.Time) (*domain.Reservation, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	candidate := *res
	var result *domain.Reservation

	err := uc.txManager.DoSerializable(attemptCtx, func(txCtx context.Context) error {
		// 9.1. Сериализуем операции одного бизнеса
		if err := uc.reservationRepo.LockBusiness(txCtx, candidate.BusinessID); err != nil {
			return fmt.Errorf("%w: failed to lock business: %w", ErrInternal, err)
		}

		// 9.2. Получаем пересекающиеся активные бронирования с блокировкой (FOR UPDATE)
		overlapping, err := uc.reservationRepo.ListOverlapping(txCtx, candidate.BusinessID, candidate.Start, candidate.End)
		if err != nil {
			return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
		}

		// 9.3. Проверяем вместимость тем же расчётом, что и при выдаче слотов
		if !domain.IsAvailable(candidate.Start, candidate.DurationMinutes, overlapping, capacity, now) {
			uc.logger.Info("CreateReservation: %d/%d spots taken at %s",
				domain.CountOverlapping(candidate.Start, candidate.End, overlapping, now), capacity,
				candidate.Start.Format(time.RFC3339))
			return ErrSlotNotAvailable
		}

		// 9.4. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, &candidate)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if txmanager.IsRetryable(err) {
			return nil, fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
		}
		// Попытка не дождалась блокировки или транзакции: слот занят другой бронью
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: attempt timed out after %s: %v", ErrConcurrencyConflict, uc.timeout, err)
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return result, nil
}

func (uc *UseCase) buildReservation(
	cfg *domain.BusinessConfig,
	req *Request,
	service *domain.Service,
	duration int,
	start, end, now time.Time,
) *domain.Reservation {
	res := &domain.Reservation{
		BusinessID: cfg.ID,
		Customer: domain.Customer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		DurationMinutes:   duration,
		Start:             start,
		End:               end,
		ConfirmationToken: uuid.NewString(),
		CancellationToken: uuid.NewString(),
		Notes:             req.Notes,
	}

	if service != nil {
		res.ServiceID = &service.ID
		res.ServiceName = service.Name
	}

	if req.ByAdmin {
		res.Status = domain.StatusConfirmed
		res.ConfirmedAt = &now
	} else {
		expiresAt := now.Add(cfg.ConfirmationWindow)
		res.Status = domain.StatusPending
		res.ExpiresAt = &expiresAt
	}

	return res
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordReservation(outcome)
	}
}

func toResponse(res *domain.Reservation, loc *time.Location) *Response {
	start := res.Start.In(loc)
	end := res.End.In(loc)
	return &Response{
		ReservationID:     res.ID,
		ConfirmationToken: res.ConfirmationToken,
		CancellationToken: res.CancellationToken,
		Status:            string(res.Status),
		Start:             res.Start,
		End:               res.End,
		ExpiresAt:         res.ExpiresAt,
		Date:              start.Format(domain.DateFormat),
		Time:              start.Format(domain.TimeFormat),
		EndTime:           end.Format(domain.TimeFormat),
		ServiceName:       res.ServiceName,
		DurationMinutes:   res.DurationMinutes,
	}
}
