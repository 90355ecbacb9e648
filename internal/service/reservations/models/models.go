package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

const maxListLimit = 500

// Request модели

// ListReservationsRequest запрос на получение бронирований бизнеса
// Даты в формате YYYY-MM-DD трактуются в часовом поясе бизнеса; To включительно
type ListReservationsRequest struct {
	BusinessID int64
	From       *string
	To         *string
	Status     *string
	Limit      uint64
	Offset     uint64
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter(loc *time.Location) (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		BusinessID: r.BusinessID,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}

	if filter.Limit == 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	if r.From != nil {
		from, err := domain.ParseDate(*r.From, loc)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q", *r.From)
		}
		filter.From = &from
	}

	if r.To != nil {
		to, err := domain.ParseDate(*r.To, loc)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q", *r.To)
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, fmt.Errorf("from date must not be after to date")
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64      `json:"id"`
	BusinessID      int64      `json:"businessId"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail,omitempty"`
	CustomerPhone   *string    `json:"customerPhone,omitempty"`
	ServiceID       *int64     `json:"serviceId,omitempty"`
	ServiceName     string     `json:"serviceName,omitempty"`
	Date            string     `json:"date"`    // "2025-03-10"
	Time            string     `json:"time"`    // "09:00"
	EndTime         string     `json:"endTime"` // "09:30"
	DurationMinutes int        `json:"durationMinutes"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	Status          string     `json:"status"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ReservationListResponse список бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain.Reservation в ReservationResponse
// Дата и время выводятся в часовом поясе бизнеса
func FromDomainReservation(res *domain.Reservation, loc *time.Location) *ReservationResponse {
	if res == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	start := res.Start.In(loc)
	end := res.End.In(loc)

	return &ReservationResponse{
		ID:              res.ID,
		BusinessID:      res.BusinessID,
		CustomerName:    res.Customer.Name,
		CustomerEmail:   res.Customer.Email,
		CustomerPhone:   res.Customer.Phone,
		ServiceID:       res.ServiceID,
		ServiceName:     res.ServiceName,
		Date:            start.Format(domain.DateFormat),
		Time:            start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		DurationMinutes: res.DurationMinutes,
		Start:           res.Start,
		End:             res.End,
		Status:          string(res.Status),
		ExpiresAt:       res.ExpiresAt,
		Notes:           res.Notes,
		ConfirmedAt:     res.ConfirmedAt,
		CancelledAt:     res.CancelledAt,
		CreatedAt:       res.CreatedAt,
	}
}

// FromDomainReservationList конвертирует список бронирований
func FromDomainReservationList(list []*domain.Reservation, loc *time.Location) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, res := range list {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(res, loc))
	}
	return resp
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
