package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AvailableSlot represents a candidate start time with its occupancy
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableSpots  int
	TotalSpots      int
}

// IsAvailable returns true if at least one spot is free
func (s *AvailableSlot) IsAvailable() bool {
	return s.AvailableSpots > 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// GenerateSlots returns candidate start minutes for every range in order.
// A candidate t = range.Start + k*granularity is emitted only if
// t + duration <= range.End of the same range; the last slot never spills over.
func GenerateSlots(ranges []TimeRange, durationMinutes, granularity int) []int {
	if durationMinutes <= 0 || granularity <= 0 {
		return nil
	}

	var slots []int
	for _, r := range ranges {
		for t := r.Start; fitsRange(r, t, durationMinutes); t += granularity {
			slots = append(slots, t)
		}
	}
	return slots
}

// IsValidSlotStart returns true if start is a candidate GenerateSlots would emit
func IsValidSlotStart(ranges []TimeRange, start, durationMinutes, granularity int) bool {
	if durationMinutes <= 0 || granularity <= 0 {
		return false
	}
	for _, r := range ranges {
		if start < r.Start || (start-r.Start)%granularity != 0 {
			continue
		}
		if fitsRange(r, start, durationMinutes) {
			return true
		}
	}
	return false
}

func fitsRange(r TimeRange, start, duration int) bool {
	return start >= r.Start && start+duration <= r.End
}

// SlotInterval converts a minute-of-day slot on the given date into an absolute interval
func SlotInterval(date time.Time, startMinute, durationMinutes int, loc *time.Location) (time.Time, time.Time) {
	start := AtMinute(date, startMinute, loc)
	return start, start.Add(time.Duration(durationMinutes) * time.Minute)
}
