package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrTokenNotFound возвращается, когда токен отмены не найден
	ErrTokenNotFound = errors.New("token not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrInvalidStatusTransition возвращается, когда переход статуса недопустим
	ErrInvalidStatusTransition = errors.New("reservation status does not allow this operation")

	// ErrReservationExpired возвращается при подтверждении брони с истёкшим окном
	ErrReservationExpired = errors.New("confirmation window has expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
