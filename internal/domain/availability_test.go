package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reservationAt(start time.Time, minutes int, status ReservationStatus) *Reservation {
	return &Reservation{
		Start:           start,
		End:             start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Status:          status,
	}
}

func TestIsAvailable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC) }

	existing := []*Reservation{
		reservationAt(at(9, 0), 60, StatusConfirmed),
		reservationAt(at(11, 0), 30, StatusCancelled),
	}

	tests := []struct {
		name       string
		start      time.Time
		duration   int
		maxPerSlot int
		want       bool
	}{
		{name: "same start", start: at(9, 0), duration: 30, maxPerSlot: 1, want: false},
		{name: "inside existing", start: at(9, 30), duration: 30, maxPerSlot: 1, want: false},
		{name: "starts before and overlaps", start: at(8, 30), duration: 45, maxPerSlot: 1, want: false},
		{name: "touching end is free", start: at(10, 0), duration: 30, maxPerSlot: 1, want: true},
		{name: "touching start is free", start: at(8, 30), duration: 30, maxPerSlot: 1, want: true},
		{name: "cancelled does not count", start: at(11, 0), duration: 30, maxPerSlot: 1, want: true},
		{name: "second spot with capacity two", start: at(9, 0), duration: 30, maxPerSlot: 2, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAvailable(tt.start, tt.duration, existing, tt.maxPerSlot, now))
		})
	}
}

func TestAvailableSpots_PendingExpiry(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	expiresAt := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	pending := reservationAt(start, 30, StatusPending)
	pending.ExpiresAt = &expiresAt
	existing := []*Reservation{pending, reservationAt(start, 30, StatusConfirmed)}

	before := expiresAt.Add(-time.Minute)
	assert.Equal(t, 1, AvailableSpots(start, 30, existing, 3, before))

	assert.Equal(t, 2, AvailableSpots(start, 30, existing, 3, expiresAt))
	assert.Equal(t, 0, AvailableSpots(start, 30, existing, 1, before))
}

func TestCountOverlapping_CapacityNeverExceeded(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	ranges := []TimeRange{{Start: 540, End: 720}}
	const capacity = 2

	var accepted []*Reservation
	// Жадно заполняем все слоты разной длительности
	for _, duration := range []int{30, 60, 45, 90, 30} {
		for _, slot := range GenerateSlots(ranges, duration, 30) {
			start, _ := SlotInterval(day, slot, duration, time.UTC)
			if IsAvailable(start, duration, accepted, capacity, now) {
				accepted = append(accepted, reservationAt(start, duration, StatusConfirmed))
			}
		}
	}

	for minute := 540; minute < 720; minute++ {
		instant := day.Add(time.Duration(minute) * time.Minute)
		active := 0
		for _, r := range accepted {
			if !instant.Before(r.Start) && instant.Before(r.End) {
				active++
			}
		}
		assert.LessOrEqual(t, active, capacity, "minute %d", minute)
	}
}

// Понедельник 09-13 и 15-19, шаг 30 минут, вместимость 1, подтверждённая бронь на 09:00
func TestScenarioA_MondayListing(t *testing.T) {
	cfg := newTestConfig(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	nine := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	existing := []*Reservation{reservationAt(nine, 30, StatusConfirmed)}

	slots := GenerateSlots(cfg.OpenRangesFor(monday), 30, cfg.Granularity())
	assert.Len(t, slots, 16)
	assert.Equal(t, 540, slots[0])
	assert.Equal(t, 750, slots[7])
	assert.Equal(t, 900, slots[8])
	assert.Equal(t, 1110, slots[15])

	for _, s := range slots {
		start, _ := SlotInterval(monday, s, 30, time.UTC)
		want := s != 540
		assert.Equal(t, want, IsAvailable(start, 30, existing, cfg.Capacity(), now), "slot %s", FormatMinutes(s))
	}
}

// Вторник: особое расписание 10-12 поверх недельного 09-17
func TestScenarioB_SpecialOverride(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Special = []SpecialSchedule{{ID: 1, Date: tuesday, Range: TimeRange{Start: 600, End: 720}, Active: true}}

	slots := GenerateSlots(cfg.OpenRangesFor(tuesday), 30, cfg.Granularity())
	assert.Equal(t, []int{600, 630, 660, 690}, slots)
}

func TestReservation_CountsAgainstCapacity(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	pending := &Reservation{Status: StatusPending, ExpiresAt: &later}
	assert.True(t, pending.CountsAgainstCapacity(now))
	assert.False(t, pending.CountsAgainstCapacity(later))
	assert.True(t, pending.IsExpiredAt(later))

	noWindow := &Reservation{Status: StatusPending}
	assert.True(t, noWindow.CountsAgainstCapacity(later))

	assert.True(t, (&Reservation{Status: StatusConfirmed}).CountsAgainstCapacity(now))
	assert.False(t, (&Reservation{Status: StatusCancelled}).CountsAgainstCapacity(now))
	assert.False(t, (&Reservation{Status: StatusExpired}).CountsAgainstCapacity(now))
}
