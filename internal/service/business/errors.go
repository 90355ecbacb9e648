package business

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("blocked date not found")

	// ErrSpecialScheduleNotFound возвращается, когда особое расписание не найдено
	ErrSpecialScheduleNotFound = errors.New("special schedule not found")

	// ErrDuplicateSpecialSchedule возвращается при втором активном расписании на дату
	ErrDuplicateSpecialSchedule = errors.New("active special schedule already exists for this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
