package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInvalidEmail возвращается при некорректном email клиента
	ErrInvalidEmail = errors.New("create_reservation: invalid email")

	// ErrInvalidPhone возвращается при отсутствующем или некорректном телефоне
	ErrInvalidPhone = errors.New("create_reservation: invalid phone")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("create_reservation: invalid date, expected YYYY-MM-DD")

	// ErrInvalidTime возвращается при некорректном времени
	ErrInvalidTime = errors.New("create_reservation: invalid time, expected HH:MM")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_reservation: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrDateBlocked возвращается, когда дата заблокирована
	ErrDateBlocked = errors.New("create_reservation: date is blocked")

	// ErrDateInPast возвращается, когда время брони уже прошло
	ErrDateInPast = errors.New("create_reservation: date is in the past")

	// ErrOutsideOpenHours возвращается, когда интервал не помещается в часы работы
	ErrOutsideOpenHours = errors.New("create_reservation: time is outside open hours")

	// ErrInvalidSlotStart возвращается, когда время не совпадает с сеткой слотов
	ErrInvalidSlotStart = errors.New("create_reservation: time is not a valid slot start")

	// ErrSlotNotAvailable возвращается, когда все места в слоте заняты
	ErrSlotNotAvailable = errors.New("create_reservation: slot is not available")

	// ErrConcurrencyConflict конфликт параллельных транзакций; повторяется один раз
	ErrConcurrencyConflict = errors.New("create_reservation: concurrency conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
