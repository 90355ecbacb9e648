package confirm_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при пустом токене
	ErrInvalidInput = errors.New("confirm_reservation: invalid input data")

	// ErrTokenNotFound возвращается, когда токен подтверждения не найден
	ErrTokenNotFound = errors.New("confirm_reservation: token not found")

	// ErrTokenExpired возвращается, когда окно подтверждения истекло или бронь отменена
	ErrTokenExpired = errors.New("confirm_reservation: token expired")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_reservation: internal error")
)
