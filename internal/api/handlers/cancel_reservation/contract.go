package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	Cancel(ctx context.Context, id int64) (*models.ReservationResponse, error)
	CancelByToken(ctx context.Context, token string) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
