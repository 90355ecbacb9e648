package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	businessService "github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

// Service сервис для работы с существующими бронированиями:
// чтение, отмена, подтверждение администратором и истечение pending
type Service struct {
	repo         ReservationRepository
	configs      ConfigProvider
	notifier     Notifier
	txManager    TransactionManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// notifier и metrics могут быть nil
func NewService(
	repo ReservationRepository,
	configs ConfigProvider,
	notifier Notifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		configs:      configs,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Get получает бронирование по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Get: fetching reservation id=%d", id)

	res, err := s.getByID(ctx, id, "Get")
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(res, locationOf(s.configOrNil(ctx, res.BusinessID))), nil
}

// ListByBusiness получает бронирования бизнеса с фильтрацией по периоду и статусу
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByBusiness: fetching reservations for business=%d", req.BusinessID)

	cfg, err := s.snapshot(ctx, req.BusinessID, "ListByBusiness")
	if err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter(cfg.Location())
	if err != nil {
		s.logger.Warn("ListByBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.repo.ListByBusiness(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: successfully fetched %d reservations for business=%d", len(list), req.BusinessID)
	return models.FromDomainReservationList(list, cfg.Location()), nil
}

// Cancel отменяет бронирование по ID
// Повторная отмена и отмена истёкшей брони ничего не меняют и не считаются ошибкой
func (s *Service) Cancel(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d", id)

	res, err := s.getByID(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	return s.cancel(ctx, res, "Cancel")
}

// CancelByToken отменяет бронирование по токену отмены из письма клиенту
func (s *Service) CancelByToken(ctx context.Context, token string) (*models.ReservationResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(token); err != nil {
		s.logger.Warn("CancelByToken: malformed token")
		return nil, ErrTokenNotFound
	}

	res, err := s.repo.GetByCancellationToken(ctx, token)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("CancelByToken: token not found")
			return nil, ErrTokenNotFound
		}
		s.logger.Error("CancelByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: CancelByToken - repository error: %v", ErrInternal, err)
	}

	return s.cancel(ctx, res, "CancelByToken")
}

// ConfirmByAdmin подтверждает pending бронирование по ID без токена
// Подтверждённая бронь возвращается как есть; pending с истёкшим окном помечается expired
func (s *Service) ConfirmByAdmin(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("ConfirmByAdmin: confirming reservation id=%d", id)

	current, err := s.getByID(ctx, id, "ConfirmByAdmin")
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	var (
		result    *domain.Reservation
		confirmed bool
		expired   bool
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockBusiness(txCtx, current.BusinessID); err != nil {
			return fmt.Errorf("%w: ConfirmByAdmin - lock business: %v", ErrInternal, err)
		}

		res, err := s.getByID(txCtx, id, "ConfirmByAdmin")
		if err != nil {
			return err
		}

		switch {
		case res.Status == domain.StatusConfirmed:
			result = res
			return nil
		case res.IsExpiredAt(now):
			if err := s.repo.UpdateStatus(txCtx, res.ID, domain.StatusExpired, now); err != nil {
				return fmt.Errorf("%w: ConfirmByAdmin - expire: %v", ErrInternal, err)
			}
			expired = true
			return nil
		case res.Status != domain.StatusPending:
			return fmt.Errorf("%w: status is %s", ErrInvalidStatusTransition, res.Status)
		}

		if err := s.repo.UpdateStatus(txCtx, res.ID, domain.StatusConfirmed, now); err != nil {
			return fmt.Errorf("%w: ConfirmByAdmin - update status: %v", ErrInternal, err)
		}

		res.Status = domain.StatusConfirmed
		res.ConfirmedAt = &now
		result = res
		confirmed = true
		return nil
	})
	if err != nil {
		s.logFailure("ConfirmByAdmin", id, err)
		return nil, err
	}

	if expired {
		s.logger.Warn("ConfirmByAdmin: reservation id=%d confirmation window expired", id)
		s.record(metrics.OutcomeExpired)
		return nil, ErrReservationExpired
	}

	cfg := s.configOrNil(ctx, result.BusinessID)
	if confirmed {
		s.record(metrics.OutcomeConfirmed)
		s.logger.Info("ConfirmByAdmin: reservation id=%d confirmed", id)
		if s.notifier != nil && cfg != nil {
			if err := s.notifier.NotifyConfirmed(ctx, cfg, result); err != nil {
				s.logger.Warn("ConfirmByAdmin: failed to publish notification for reservation id=%d: %v", id, err)
			}
		}
	}

	return models.FromDomainReservation(result, locationOf(cfg)), nil
}

// ExpirePending помечает expired все pending бронирования с истёкшим окном подтверждения
// Возвращает количество обновлённых бронирований
func (s *Service) ExpirePending(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	ids, err := s.repo.ExpirePending(ctx, now)
	if err != nil {
		s.logger.Error("ExpirePending: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpirePending - repository error: %v", ErrInternal, err)
	}

	for range ids {
		s.record(metrics.OutcomeExpired)
	}
	if len(ids) > 0 {
		s.logger.Info("ExpirePending: expired %d reservations: %v", len(ids), ids)
	}

	return len(ids), nil
}

// cancel переводит бронь в cancelled под блокировкой бизнеса
// Блокировка берётся до чтения строки FOR UPDATE, в том же порядке, что и при создании
func (s *Service) cancel(ctx context.Context, current *domain.Reservation, op string) (*models.ReservationResponse, error) {
	now := s.timeProvider.Now()
	var (
		result    *domain.Reservation
		cancelled bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockBusiness(txCtx, current.BusinessID); err != nil {
			return fmt.Errorf("%w: %s - lock business: %v", ErrInternal, op, err)
		}

		res, err := s.getByID(txCtx, current.ID, op)
		if err != nil {
			return err
		}

		if res.IsFinal() {
			result = res
			return nil
		}

		if err := s.repo.UpdateStatus(txCtx, res.ID, domain.StatusCancelled, now); err != nil {
			return fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
		}

		res.Status = domain.StatusCancelled
		res.CancelledAt = &now
		result = res
		cancelled = true
		return nil
	})
	if err != nil {
		s.logFailure(op, current.ID, err)
		return nil, err
	}

	cfg := s.configOrNil(ctx, result.BusinessID)
	if cancelled {
		s.record(metrics.OutcomeCancelled)
		s.logger.Info("%s: reservation id=%d cancelled", op, result.ID)
		if s.notifier != nil && cfg != nil {
			if err := s.notifier.NotifyCancelled(ctx, cfg, result); err != nil {
				s.logger.Warn("%s: failed to publish notification for reservation id=%d: %v", op, result.ID, err)
			}
		}
	} else {
		s.logger.Info("%s: reservation id=%d already %s, nothing to do", op, result.ID, result.Status)
	}

	return models.FromDomainReservation(result, locationOf(cfg)), nil
}

func (s *Service) getByID(ctx context.Context, id int64, op string) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) snapshot(ctx context.Context, businessID int64, op string) (*domain.BusinessConfig, error) {
	cfg, err := s.configs.GetSnapshot(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessService.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: %s - get config: %v", ErrInternal, op, err)
	}
	return cfg, nil
}

// configOrNil используется там, где конфигурация нужна только для оформления ответа
func (s *Service) configOrNil(ctx context.Context, businessID int64) *domain.BusinessConfig {
	cfg, err := s.configs.GetSnapshot(ctx, businessID)
	if err != nil {
		s.logger.Warn("failed to load config for business=%d: %v", businessID, err)
		return nil
	}
	return cfg
}

func locationOf(cfg *domain.BusinessConfig) *time.Location {
	if cfg == nil {
		return time.UTC
	}
	return cfg.Location()
}

func (s *Service) logFailure(op string, id int64, err error) {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: failed for reservation id=%d: %v", op, id, err)
		return
	}
	s.logger.Warn("%s: rejected for reservation id=%d: %v", op, id, err)
}

func (s *Service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordReservation(outcome)
	}
}
