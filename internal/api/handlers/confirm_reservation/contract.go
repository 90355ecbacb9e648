package confirm_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	confirmReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

type ConfirmReservationUseCase interface {
	Execute(ctx context.Context, req *confirmReservation.Request) (*confirmReservation.Response, error)
}

type ReservationService interface {
	ConfirmByAdmin(ctx context.Context, id int64) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
