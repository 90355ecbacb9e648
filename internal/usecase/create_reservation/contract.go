package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ListOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Reservation, error)
	LockBusiness(ctx context.Context, businessID int64) error
}

// BusinessRepository интерфейс репозитория конфигурации бизнеса
// При создании брони конфигурация всегда читается из БД, мимо кэша
type BusinessRepository interface {
	GetConfig(ctx context.Context, businessID int64) (*domain.BusinessConfig, error)
}

// Notifier публикует уведомления о новой брони
type Notifier interface {
	NotifyCreated(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error
}

// MetricsRecorder счётчики исходов бронирования
type MetricsRecorder interface {
	RecordReservation(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
