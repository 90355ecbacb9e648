package domain

import "errors"

var (
	// ErrInvalidTimeRange диапазон нарушает 0 <= start < end <= 24:00
	ErrInvalidTimeRange = errors.New("domain: invalid time range")

	// ErrOverlappingRanges диапазоны одного дня пересекаются
	ErrOverlappingRanges = errors.New("domain: overlapping time ranges")

	// ErrInvalidWeekday день недели вне 0..6
	ErrInvalidWeekday = errors.New("domain: invalid weekday")

	// ErrDuplicateSpecialSchedule два активных особых расписания на одну дату
	ErrDuplicateSpecialSchedule = errors.New("domain: duplicate active special schedule for date")

	// ErrInvalidService некорректные данные услуги
	ErrInvalidService = errors.New("domain: invalid service")

	// ErrInvalidBusinessConfig некорректная конфигурация бизнеса
	ErrInvalidBusinessConfig = errors.New("domain: invalid business config")
)
