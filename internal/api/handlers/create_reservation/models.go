package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ServiceID     *int64  `json:"serviceId,omitempty"`
	Date          string  `json:"date"` // "2025-03-10"
	Time          string  `json:"time"` // "09:00"
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID     int64      `json:"reservationId"`
	ConfirmationToken string     `json:"confirmationToken"`
	CancellationToken string     `json:"cancellationToken"`
	Status            string     `json:"status"`
	Start             time.Time  `json:"start"`
	End               time.Time  `json:"end"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	Date              string     `json:"date"`
	Time              string     `json:"time"`
	EndTime           string     `json:"endTime"`
	ServiceName       string     `json:"serviceName,omitempty"`
	DurationMinutes   int        `json:"durationMinutes"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Разбор даты и времени выполняет use case в часовом поясе бизнеса
func (r *CreateReservationRequest) ToUseCaseRequest(businessID int64, byAdmin bool) *createReservation.Request {
	return &createReservation.Request{
		BusinessID:    businessID,
		ServiceID:     r.ServiceID,
		Date:          r.Date,
		Time:          r.Time,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
		ByAdmin:       byAdmin,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID:     resp.ReservationID,
		ConfirmationToken: resp.ConfirmationToken,
		CancellationToken: resp.CancellationToken,
		Status:            resp.Status,
		Start:             resp.Start,
		End:               resp.End,
		ExpiresAt:         resp.ExpiresAt,
		Date:              resp.Date,
		Time:              resp.Time,
		EndTime:           resp.EndTime,
		ServiceName:       resp.ServiceName,
		DurationMinutes:   resp.DurationMinutes,
	}
}
