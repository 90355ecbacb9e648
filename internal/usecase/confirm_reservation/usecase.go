package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

// UseCase use case для подтверждения брони клиентом по ссылке из письма
type UseCase struct {
	reservationRepo ReservationRepository
	configs         ConfigProvider
	notifier        Notifier
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// notifier и metrics могут быть nil
func NewUseCase(
	reservationRepo ReservationRepository,
	configs ConfigProvider,
	notifier Notifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		configs:         configs,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case подтверждения
//
// Переходы:
// - pending в пределах окна → confirmed, клиенту уходит уведомление
// - pending с истёкшим окном → expired, ErrTokenExpired
// - confirmed → возвращается как есть (повторный переход по ссылке)
// - cancelled, expired → ErrTokenExpired
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация токена
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(token); err != nil {
		uc.logger.Warn("ConfirmReservation: malformed token")
		return nil, ErrTokenNotFound
	}

	// 2. Ищем бронь по токену
	current, err := uc.reservationRepo.GetByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ConfirmReservation: token not found")
			return nil, ErrTokenNotFound
		}
		uc.logger.Error("ConfirmReservation: repository error: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmReservation: confirming reservation id=%d", current.ID)

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result    *domain.Reservation
		confirmed bool
		expired   bool
	)

	// 4. Переход статуса под блокировкой бизнеса
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.reservationRepo.LockBusiness(txCtx, current.BusinessID); err != nil {
			return fmt.Errorf("%w: failed to lock business: %v", ErrInternal, err)
		}

		res, err := uc.reservationRepo.GetByID(txCtx, current.ID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
		}

		switch {
		case res.Status == domain.StatusConfirmed:
			result = res
			return nil
		case res.IsExpiredAt(now):
			if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusExpired, now); err != nil {
				return fmt.Errorf("%w: failed to expire reservation: %v", ErrInternal, err)
			}
			expired = true
			return nil
		case !res.CanBeConfirmed(now):
			return fmt.Errorf("%w: reservation is %s", ErrTokenExpired, res.Status)
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, domain.StatusConfirmed, now); err != nil {
			return fmt.Errorf("%w: failed to confirm reservation: %v", ErrInternal, err)
		}

		res.Status = domain.StatusConfirmed
		res.ConfirmedAt = &now
		result = res
		confirmed = true
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ConfirmReservation: failed for reservation id=%d: %v", current.ID, err)
		} else {
			uc.logger.Warn("ConfirmReservation: rejected for reservation id=%d: %v", current.ID, err)
		}
		return nil, err
	}

	if expired {
		uc.logger.Warn("ConfirmReservation: reservation id=%d confirmation window expired", current.ID)
		uc.record(metrics.OutcomeExpired)
		return nil, fmt.Errorf("%w: confirmation window closed", ErrTokenExpired)
	}

	// 5. Конфигурация нужна для часового пояса и уведомления
	cfg, err := uc.configs.GetSnapshot(ctx, result.BusinessID)
	if err != nil {
		uc.logger.Warn("ConfirmReservation: failed to load config for business=%d: %v", result.BusinessID, err)
	}

	if confirmed {
		uc.record(metrics.OutcomeConfirmed)
		uc.logger.Info("ConfirmReservation: reservation id=%d confirmed", result.ID)

		// 6. Уведомление после коммита, ошибка только логируется
		if uc.notifier != nil && cfg != nil {
			if err := uc.notifier.NotifyConfirmed(ctx, cfg, result); err != nil {
				uc.logger.Warn("ConfirmReservation: failed to publish notification for reservation id=%d: %v", result.ID, err)
			}
		}
	}

	return toResponse(result, cfg, !confirmed), nil
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordReservation(outcome)
	}
}

func toResponse(res *domain.Reservation, cfg *domain.BusinessConfig, alreadyConfirmed bool) *Response {
	loc := time.UTC
	businessName := ""
	if cfg != nil {
		loc = cfg.Location()
		businessName = cfg.Name
	}

	start := res.Start.In(loc)
	end := res.End.In(loc)

	return &Response{
		ReservationID:    res.ID,
		BusinessName:     businessName,
		ServiceName:      res.ServiceName,
		Status:           string(res.Status),
		Date:             start.Format(domain.DateFormat),
		Time:             start.Format(domain.TimeFormat),
		EndTime:          end.Format(domain.TimeFormat),
		Start:            res.Start,
		AlreadyConfirmed: alreadyConfirmed,
	}
}
