package domain

import (
	"time"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusExpired   ReservationStatus = "expired"
)

// IsValid reports whether s is a known status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Customer contact data captured with the reservation
type Customer struct {
	Name  string
	Email string
	Phone *string
}

// Reservation is a single booked interval [Start, End) for one service of a business.
// End is fixed at creation time as Start + DurationMinutes; later service edits
// do not change existing reservations.
type Reservation struct {
	ID         int64
	BusinessID int64
	Customer   Customer

	// Denormalized service data
	ServiceID       *int64
	ServiceName     string
	DurationMinutes int

	Start  time.Time
	End    time.Time
	Status ReservationStatus

	ConfirmationToken string
	CancellationToken string
	ExpiresAt         *time.Time

	Notes       *string
	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true for pending and confirmed reservations
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsExpiredAt returns true if the reservation is pending and its confirmation window closed
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.Status == StatusPending && r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// CountsAgainstCapacity returns true if the reservation occupies its interval at the moment now.
// A pending reservation past its window stops counting before the sweeper marks it expired.
func (r *Reservation) CountsAgainstCapacity(now time.Time) bool {
	switch r.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return !r.IsExpiredAt(now)
	default:
		return false
	}
}

// Overlaps returns true if [start, end) intersects the reservation interval
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}

// CanBeConfirmed returns true if the reservation is pending and still inside its window
func (r *Reservation) CanBeConfirmed(now time.Time) bool {
	return r.Status == StatusPending && !r.IsExpiredAt(now)
}

// IsFinal returns true for cancelled and expired reservations
func (r *Reservation) IsFinal() bool {
	return r.Status == StatusCancelled || r.Status == StatusExpired
}

// ReservationFilter фильтр для получения бронирований бизнеса
type ReservationFilter struct {
	BusinessID int64              // Обязательный параметр
	From       *time.Time         // Начало периода (по времени начала брони)
	To         *time.Time         // Конец периода (не включительно)
	Status     *ReservationStatus // Фильтр по статусу (опционально)
	Limit      uint64             // 0 = без ограничения
	Offset     uint64
}
