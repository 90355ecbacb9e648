package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	businessCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/business"
	businessRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

// Service сервис конфигурации бизнеса: услуги, расписания, блокировки
type Service struct {
	repo      BusinessRepository
	cache     ConfigCache
	txManager TransactionManager
	validate  Validator
	logger    Logger

	defaultWindow      time.Duration
	defaultGranularity int
}

// NewService создает новый экземпляр сервиса конфигурации
// cache может быть nil, тогда конфигурация всегда читается из БД
func NewService(
	repo BusinessRepository,
	cache ConfigCache,
	txManager TransactionManager,
	validate Validator,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		txManager: txManager,
		validate:  validate,
		logger:    logger,
	}
}

// WithDefaults задаёт значения для новых бизнесов, если они не переданы в запросе
func (s *Service) WithDefaults(confirmationWindow time.Duration, slotGranularityMinutes int) *Service {
	s.defaultWindow = confirmationWindow
	s.defaultGranularity = slotGranularityMinutes
	return s
}

// GetSnapshot возвращает конфигурацию для расчёта слотов
// Сначала кэш, затем БД; промах кэша заполняет его, если конфигурацию
// не инвалидировали во время чтения из БД
func (s *Service) GetSnapshot(ctx context.Context, businessID int64) (*domain.BusinessConfig, error) {
	fill := false
	var generation int64

	if s.cache != nil {
		cfg, err := s.cache.Get(ctx, businessID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, businessCache.ErrCacheMiss) {
			s.logger.Warn("GetSnapshot: cache unavailable for business=%d: %v", businessID, err)
		} else if generation, err = s.cache.Generation(ctx, businessID); err != nil {
			s.logger.Warn("GetSnapshot: failed to read cache generation for business=%d: %v", businessID, err)
		} else {
			fill = true
		}
	}

	cfg, err := s.load(ctx, businessID, "GetSnapshot")
	if err != nil {
		return nil, err
	}

	if fill {
		err := s.cache.Fill(ctx, cfg, generation)
		switch {
		case errors.Is(err, businessCache.ErrStaleSnapshot):
			s.logger.Info("GetSnapshot: config for business=%d changed during load, not cached", businessID)
		case err != nil:
			s.logger.Warn("GetSnapshot: failed to cache config for business=%d: %v", businessID, err)
		}
	}

	return cfg, nil
}

// GetConfig получает полную конфигурацию бизнеса из БД
func (s *Service) GetConfig(ctx context.Context, businessID int64) (*models.ConfigResponse, error) {
	cfg, err := s.load(ctx, businessID, "GetConfig")
	if err != nil {
		return nil, err
	}
	return models.FromDomainConfig(cfg), nil
}

// ListServices получает активные услуги бизнеса
func (s *Service) ListServices(ctx context.Context, businessID int64) (*models.ServiceListResponse, error) {
	cfg, err := s.GetSnapshot(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainServices(cfg.ActiveServices()), nil
}

// CreateBusiness создает бизнес с начальной конфигурацией
func (s *Service) CreateBusiness(ctx context.Context, req *models.ConfigRequest) (*models.ConfigResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("CreateBusiness: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg := &domain.BusinessConfig{
		ConfirmationWindow:     s.defaultWindow,
		SlotGranularityMinutes: s.defaultGranularity,
	}
	if err := req.ApplyTo(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := domain.NormalizeBusinessConfig(cfg); err != nil {
		s.logger.Warn("CreateBusiness: invalid config: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := s.repo.CreateBusiness(txCtx, cfg)
		return err
	})
	if err != nil {
		s.logger.Error("CreateBusiness: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBusiness: created business id=%d, name=%s", cfg.ID, cfg.Name)
	return models.FromDomainConfig(cfg), nil
}

// UpdateConfig применяет переданные поля к текущей конфигурации,
// нормализует результат целиком и сохраняет его в одной транзакции
func (s *Service) UpdateConfig(ctx context.Context, businessID int64, req *models.ConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating config for business=%d", businessID)

	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("UpdateConfig: validation failed for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated *domain.BusinessConfig
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		cfg, err := s.load(txCtx, businessID, "UpdateConfig")
		if err != nil {
			return err
		}

		if err := req.ApplyTo(cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := domain.NormalizeBusinessConfig(cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.repo.SaveConfig(txCtx, cfg); err != nil {
			return fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
		}

		updated = cfg
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrBusinessNotFound) {
			s.logger.Warn("UpdateConfig: rejected for business=%d: %v", businessID, err)
		} else {
			s.logger.Error("UpdateConfig: failed for business=%d: %v", businessID, err)
		}
		return nil, err
	}

	s.invalidate(ctx, businessID)

	s.logger.Info("UpdateConfig: successfully updated config for business=%d", businessID)
	return models.FromDomainConfig(updated), nil
}

// ListBlockedDates получает заблокированные даты
func (s *Service) ListBlockedDates(ctx context.Context, businessID int64) ([]models.BlockedDateResponse, error) {
	if _, err := s.load(ctx, businessID, "ListBlockedDates"); err != nil {
		return nil, err
	}

	list, err := s.repo.ListBlockedDates(ctx, businessID)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlocked(list), nil
}

// AddBlockedDate блокирует дату целиком
func (s *Service) AddBlockedDate(ctx context.Context, businessID int64, req *models.BlockedDateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	date, err := domain.ParseDate(req.Date, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	if _, err := s.load(ctx, businessID, "AddBlockedDate"); err != nil {
		return err
	}

	if err := s.repo.AddBlockedDate(ctx, domain.BlockedDate{BusinessID: businessID, Date: date, Reason: req.Reason}); err != nil {
		s.logger.Error("AddBlockedDate: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: AddBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, businessID)
	s.logger.Info("AddBlockedDate: blocked date=%s for business=%d", req.Date, businessID)
	return nil
}

// RemoveBlockedDate снимает блокировку даты
func (s *Service) RemoveBlockedDate(ctx context.Context, businessID int64, date time.Time) error {
	if err := s.repo.RemoveBlockedDate(ctx, businessID, date); err != nil {
		if errors.Is(err, businessRepo.ErrBlockedDateNotFound) {
			return ErrBlockedDateNotFound
		}
		s.logger.Error("RemoveBlockedDate: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: RemoveBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, businessID)
	s.logger.Info("RemoveBlockedDate: unblocked date=%s for business=%d", domain.DateKey(date), businessID)
	return nil
}

// ListSpecialSchedules получает особые расписания
func (s *Service) ListSpecialSchedules(ctx context.Context, businessID int64) ([]models.SpecialScheduleResponse, error) {
	if _, err := s.load(ctx, businessID, "ListSpecialSchedules"); err != nil {
		return nil, err
	}

	list, err := s.repo.ListSpecialSchedules(ctx, businessID)
	if err != nil {
		s.logger.Error("ListSpecialSchedules: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListSpecialSchedules - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSpecials(list), nil
}

// AddSpecialSchedule создает особое расписание
// Второе активное расписание на ту же дату отклоняется
func (s *Service) AddSpecialSchedule(ctx context.Context, businessID int64, req *models.SpecialScheduleRequest) (*models.SpecialScheduleResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	schedule, err := req.ToDomain(businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg, err := s.load(ctx, businessID, "AddSpecialSchedule")
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateSpecialSchedule(cfg.Special, *schedule); err != nil {
		s.logger.Warn("AddSpecialSchedule: rejected for business=%d, date=%s: %v", businessID, req.Date, err)
		if errors.Is(err, domain.ErrDuplicateSpecialSchedule) {
			return nil, ErrDuplicateSpecialSchedule
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.repo.AddSpecialSchedule(ctx, schedule)
	if err != nil {
		if errors.Is(err, businessRepo.ErrDuplicateSpecialSchedule) {
			return nil, ErrDuplicateSpecialSchedule
		}
		s.logger.Error("AddSpecialSchedule: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: AddSpecialSchedule - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, businessID)
	s.logger.Info("AddSpecialSchedule: created schedule id=%d for business=%d, date=%s", created.ID, businessID, req.Date)

	resp := models.FromDomainSpecial(*created)
	return &resp, nil
}

// RemoveSpecialSchedule удаляет особое расписание
func (s *Service) RemoveSpecialSchedule(ctx context.Context, businessID, scheduleID int64) error {
	if err := s.repo.RemoveSpecialSchedule(ctx, businessID, scheduleID); err != nil {
		if errors.Is(err, businessRepo.ErrSpecialScheduleNotFound) {
			return ErrSpecialScheduleNotFound
		}
		s.logger.Error("RemoveSpecialSchedule: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: RemoveSpecialSchedule - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, businessID)
	s.logger.Info("RemoveSpecialSchedule: removed schedule id=%d for business=%d", scheduleID, businessID)
	return nil
}

func (s *Service) load(ctx context.Context, businessID int64, op string) (*domain.BusinessConfig, error) {
	cfg, err := s.repo.GetConfig(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: repository error for business=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return cfg, nil
}

func (s *Service) invalidate(ctx context.Context, businessID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.logger.Warn("failed to invalidate config cache for business=%d: %v", businessID, err)
	}
}
