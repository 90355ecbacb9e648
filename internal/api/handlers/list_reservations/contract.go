package list_reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	ListByBusiness(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
