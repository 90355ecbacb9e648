package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// ListOverlapping получает активные бронирования бизнеса, пересекающие [from, to)
	ListOverlapping(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Reservation, error)
}

// ConfigProvider источник снимков конфигурации бизнеса (кэш + БД)
type ConfigProvider interface {
	GetSnapshot(ctx context.Context, businessID int64) (*domain.BusinessConfig, error)
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
