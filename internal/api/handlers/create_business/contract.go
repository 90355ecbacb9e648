package create_business

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

type BusinessService interface {
	CreateBusiness(ctx context.Context, req *models.ConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
