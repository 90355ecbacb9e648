package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// filterByNotice убирает сегодняшние слоты, которые начинаются раньше now + minNoticeMinutes
// Для других дат слоты возвращаются без изменений
func filterByNotice(date time.Time, starts []int, now time.Time, minNoticeMinutes int, loc *time.Location) []int {
	localNow := now.In(loc)
	if !isSameDay(date, localNow) {
		return starts
	}

	minAllowed := localNow.Add(time.Duration(minNoticeMinutes) * time.Minute)

	result := make([]int, 0, len(starts))
	for _, start := range starts {
		if !domain.AtMinute(date, start, loc).Before(minAllowed) {
			result = append(result, start)
		}
	}
	return result
}

// buildSlots вычисляет количество свободных мест для каждого слота
// Используется тот же расчёт пересечений, что и при создании брони
func buildSlots(
	date time.Time,
	starts []int,
	durationMinutes int,
	reservations []*domain.Reservation,
	capacity int,
	now time.Time,
	loc *time.Location,
) []Slot {
	result := make([]Slot, 0, len(starts))

	for _, start := range starts {
		slotStart, _ := domain.SlotInterval(date, start, durationMinutes, loc)

		result = append(result, Slot{
			StartTime:       domain.FormatMinutes(start),
			EndTime:         domain.FormatMinutes(start + durationMinutes),
			DurationMinutes: durationMinutes,
			AvailableSpots:  domain.AvailableSpots(slotStart, durationMinutes, reservations, capacity, now),
			TotalSpots:      capacity,
		})
	}

	return result
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
