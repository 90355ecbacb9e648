package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	businessService "github.com/m04kA/SMC-ReservationService/internal/service/business"
)

// UseCase use case для получения доступных слотов для бронирования
// Читает без блокировок; окончательная проверка вместимости выполняется при создании брони
type UseCase struct {
	reservationRepo  ReservationRepository
	configs          ConfigProvider
	timeProvider     TimeProvider
	minNoticeMinutes int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	configs ConfigProvider,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		configs:          configs,
		timeProvider:     &RealTimeProvider{},
		minNoticeMinutes: minNoticeMinutes,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%v, date=%s", req.BusinessID, req.ServiceID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем снимок конфигурации бизнеса
	cfg, err := uc.configs.GetSnapshot(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessService.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get config for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	loc := cfg.Location()

	// 4. Определяем длительность по услуге
	_, duration, ok := cfg.ResolveDuration(req.ServiceID)
	if !ok {
		uc.logger.Warn("GetAvailableSlots: service id=%v not found in business id=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 5. Разбираем дату в часовом поясе бизнеса
	date, err := domain.ParseDate(req.Date, loc)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date=%q: %v", req.Date, err)
		return nil, ErrInvalidDate
	}

	resp := &Response{
		Date:            domain.DateKey(date),
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 6. Для прошедших дат слотов нет
	if isDateInPast(date, now.In(loc)) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", resp.Date)
		return resp, nil
	}

	// 7. Открытые интервалы и кандидаты на начало
	ranges := cfg.OpenRangesFor(date)
	starts := domain.GenerateSlots(ranges, duration, cfg.Granularity())
	starts = filterByNotice(date, starts, now, uc.minNoticeMinutes, loc)

	if len(starts) == 0 {
		uc.logger.Info("GetAvailableSlots: business=%d has no open slots on %s", req.BusinessID, resp.Date)
		return resp, nil
	}

	// 8. Получаем активные бронирования на этот день
	dayStart := domain.DayStart(date, loc)
	dayEnd := domain.AtMinute(date, domain.MinutesPerDay, loc)

	reservations, err := uc.reservationRepo.ListOverlapping(ctx, req.BusinessID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 9. Вычисляем доступность для каждого слота
	resp.Slots = buildSlots(date, starts, duration, reservations, cfg.Capacity(), now, loc)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, date=%s",
		len(resp.Slots), req.BusinessID, resp.Date)

	return resp, nil
}
