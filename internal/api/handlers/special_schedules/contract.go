package special_schedules

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

type BusinessService interface {
	ListSpecialSchedules(ctx context.Context, businessID int64) ([]models.SpecialScheduleResponse, error)
	AddSpecialSchedule(ctx context.Context, businessID int64, req *models.SpecialScheduleRequest) (*models.SpecialScheduleResponse, error)
	RemoveSpecialSchedule(ctx context.Context, businessID, scheduleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
