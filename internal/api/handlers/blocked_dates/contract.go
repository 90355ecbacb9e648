package blocked_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

type BusinessService interface {
	ListBlockedDates(ctx context.Context, businessID int64) ([]models.BlockedDateResponse, error)
	AddBlockedDate(ctx context.Context, businessID int64, req *models.BlockedDateRequest) error
	RemoveBlockedDate(ctx context.Context, businessID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
