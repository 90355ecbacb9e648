package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
