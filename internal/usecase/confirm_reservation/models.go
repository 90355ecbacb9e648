package confirm_reservation

import "time"

// Request модель запроса на подтверждение брони по токену из письма
type Request struct {
	Token string
}

// Response модель ответа с подтверждённой бронью
type Response struct {
	ReservationID    int64
	BusinessName     string
	ServiceName      string
	Status           string
	Date             string
	Time             string
	EndTime          string
	Start            time.Time
	AlreadyConfirmed bool // Бронь была подтверждена ранее, повторный переход по ссылке
}
