package confirm_reservation

import (
	"time"

	confirmReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

// ConfirmationResponse HTTP response model
type ConfirmationResponse struct {
	ReservationID    int64     `json:"reservationId"`
	BusinessName     string    `json:"businessName,omitempty"`
	ServiceName      string    `json:"serviceName,omitempty"`
	Status           string    `json:"status"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	EndTime          string    `json:"endTime"`
	Start            time.Time `json:"start"`
	AlreadyConfirmed bool      `json:"alreadyConfirmed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmReservation.Response) *ConfirmationResponse {
	return &ConfirmationResponse{
		ReservationID:    resp.ReservationID,
		BusinessName:     resp.BusinessName,
		ServiceName:      resp.ServiceName,
		Status:           resp.Status,
		Date:             resp.Date,
		Time:             resp.Time,
		EndTime:          resp.EndTime,
		Start:            resp.Start,
		AlreadyConfirmed: resp.AlreadyConfirmed,
	}
}
