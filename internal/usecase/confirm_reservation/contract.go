package confirm_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByConfirmationToken(ctx context.Context, token string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, at time.Time) error
	LockBusiness(ctx context.Context, businessID int64) error
}

// ConfigProvider источник снимков конфигурации бизнеса
type ConfigProvider interface {
	GetSnapshot(ctx context.Context, businessID int64) (*domain.BusinessConfig, error)
}

// Notifier публикует уведомление о подтверждении
type Notifier interface {
	NotifyConfirmed(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error
}

// MetricsRecorder счётчики исходов операций с бронированиями
type MetricsRecorder interface {
	RecordReservation(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
