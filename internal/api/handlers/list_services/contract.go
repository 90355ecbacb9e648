package list_services

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

type BusinessService interface {
	ListServices(ctx context.Context, businessID int64) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
