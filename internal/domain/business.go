package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable offering of a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           *decimal.Decimal
	Active          bool
}

// WeeklySchedule maps a weekday (0 = Sunday) to its ordered, non-overlapping open ranges
type WeeklySchedule map[time.Weekday][]TimeRange

// SpecialSchedule replaces the weekly schedule on one date when active
type SpecialSchedule struct {
	ID         int64
	BusinessID int64
	Date       time.Time
	Range      TimeRange
	Active     bool
}

// BlockedDate closes the business for the whole day
type BlockedDate struct {
	BusinessID int64
	Date       time.Time
	Reason     *string
}

// BusinessConfig is the aggregate that drives slot generation and booking rules
type BusinessConfig struct {
	ID       int64
	Name     string
	Timezone string

	Services []Service
	Weekly   WeeklySchedule
	Special  []SpecialSchedule
	Blocked  []BlockedDate

	MaxReservationsPerSlot int
	DefaultServiceDuration int
	SlotGranularityMinutes int
	ConfirmationWindow     time.Duration
	PhoneRequired          bool
	AdminEmail             *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindService returns the active service with the given id
func (c *BusinessConfig) FindService(id int64) (*Service, bool) {
	for i := range c.Services {
		if c.Services[i].ID == id && c.Services[i].Active {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// ActiveServices returns active services ordered by name
func (c *BusinessConfig) ActiveServices() []Service {
	result := make([]Service, 0, len(c.Services))
	for _, s := range c.Services {
		if s.Active {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// ResolveDuration returns the duration for a reservation.
// With a service id the duration always comes from the service record;
// the business default is used only when no service is given.
func (c *BusinessConfig) ResolveDuration(serviceID *int64) (*Service, int, bool) {
	if serviceID == nil {
		duration := c.DefaultServiceDuration
		if duration <= 0 {
			duration = DefaultServiceDurationMinutes
		}
		return nil, duration, true
	}
	svc, ok := c.FindService(*serviceID)
	if !ok {
		return nil, 0, false
	}
	return svc, svc.DurationMinutes, true
}

// Location returns the business time zone, UTC if unknown
func (c *BusinessConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Capacity returns the effective reservations-per-slot limit
func (c *BusinessConfig) Capacity() int {
	if c.MaxReservationsPerSlot < MinReservationsPerSlot {
		return DefaultMaxReservationsPerSlot
	}
	return c.MaxReservationsPerSlot
}

// Granularity returns the effective slot step in minutes
func (c *BusinessConfig) Granularity() int {
	if c.SlotGranularityMinutes <= 0 {
		return DefaultSlotGranularityMinutes
	}
	return c.SlotGranularityMinutes
}

// IsBlocked returns true if the date is in the blocked set
func (c *BusinessConfig) IsBlocked(date time.Time) bool {
	key := DateKey(date)
	for _, b := range c.Blocked {
		if DateKey(b.Date) == key {
			return true
		}
	}
	return false
}

// ActiveSpecialFor returns the active special schedule for the date
func (c *BusinessConfig) ActiveSpecialFor(date time.Time) (*SpecialSchedule, bool) {
	key := DateKey(date)
	for i := range c.Special {
		if c.Special[i].Active && DateKey(c.Special[i].Date) == key {
			return &c.Special[i], true
		}
	}
	return nil, false
}

// DateKey formats the calendar date of t as YYYY-MM-DD in t's own location
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// DayStart returns midnight of the calendar date of t in loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AtMinute returns the instant minute-of-day on the calendar date of day in loc.
// 1440 resolves to midnight of the following day.
func AtMinute(day time.Time, minute int, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
}

// ParseDate parses YYYY-MM-DD as midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, value, loc)
}
