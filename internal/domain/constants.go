package domain

import "time"

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultServiceDurationMinutes = 30
	DefaultMaxReservationsPerSlot = 1
	DefaultConfirmationWindow     = 48 * time.Hour
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinutesPerDay              = 24 * 60
	MinServiceDurationMinutes  = 5
	MaxServiceDurationMinutes  = 480 // 8 hours
	MinSlotGranularityMinutes  = 5
	MinReservationsPerSlot     = 1
	MaxReservationsPerSlot     = 100
	MinCustomerNameLength      = 3
	MaxCustomerNameLength      = 100
	MaxServiceNameLength       = 100
	MaxBlockedReasonLength     = 255
	MinConfirmationWindowHours = 1
	MaxConfirmationWindowHours = 24 * 14
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, которые занимают место в слоте
// Pending дополнительно проверяется по ExpiresAt (см. Reservation.CountsAgainstCapacity)
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
