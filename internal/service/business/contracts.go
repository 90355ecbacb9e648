package business

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BusinessRepository интерфейс репозитория конфигурации бизнеса
type BusinessRepository interface {
	GetConfig(ctx context.Context, businessID int64) (*domain.BusinessConfig, error)
	CreateBusiness(ctx context.Context, cfg *domain.BusinessConfig) (*domain.BusinessConfig, error)
	SaveConfig(ctx context.Context, cfg *domain.BusinessConfig) error
	ListServices(ctx context.Context, businessID int64, activeOnly bool) ([]domain.Service, error)
	ListBlockedDates(ctx context.Context, businessID int64) ([]domain.BlockedDate, error)
	AddBlockedDate(ctx context.Context, blocked domain.BlockedDate) error
	RemoveBlockedDate(ctx context.Context, businessID int64, date time.Time) error
	ListSpecialSchedules(ctx context.Context, businessID int64) ([]domain.SpecialSchedule, error)
	AddSpecialSchedule(ctx context.Context, schedule *domain.SpecialSchedule) (*domain.SpecialSchedule, error)
	RemoveSpecialSchedule(ctx context.Context, businessID, scheduleID int64) error
}

// ConfigCache кэш снимков конфигурации (Redis)
type ConfigCache interface {
	Get(ctx context.Context, businessID int64) (*domain.BusinessConfig, error)
	Generation(ctx context.Context, businessID int64) (int64, error)
	Fill(ctx context.Context, cfg *domain.BusinessConfig, generation int64) error
	Invalidate(ctx context.Context, businessID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Validator проверка DTO по тегам validate
type Validator interface {
	Struct(s interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
