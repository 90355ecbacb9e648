package domain

import "time"

// CountOverlapping counts reservations that occupy any instant of [start, end) at the moment now
func CountOverlapping(start, end time.Time, reservations []*Reservation, now time.Time) int {
	count := 0
	for _, r := range reservations {
		if r == nil || !r.CountsAgainstCapacity(now) {
			continue
		}
		if r.Overlaps(start, end) {
			count++
		}
	}
	return count
}

// IsAvailable returns true if a reservation of durationMinutes starting at start
// keeps the number of overlapping active reservations below maxPerSlot
func IsAvailable(start time.Time, durationMinutes int, reservations []*Reservation, maxPerSlot int, now time.Time) bool {
	return AvailableSpots(start, durationMinutes, reservations, maxPerSlot, now) > 0
}

// AvailableSpots returns how many more reservations fit into [start, start+duration)
func AvailableSpots(start time.Time, durationMinutes int, reservations []*Reservation, maxPerSlot int, now time.Time) int {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	free := maxPerSlot - CountOverlapping(start, end, reservations, now)
	if free < 0 {
		return 0
	}
	return free
}
