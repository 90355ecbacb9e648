package create_reservation

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	BusinessID    int64   // ID бизнеса
	ServiceID     *int64  // ID услуги (опционально)
	Date          string  // Дата "YYYY-MM-DD" в часовом поясе бизнеса
	Time          string  // Время начала "HH:MM"
	CustomerName  string  // Имя клиента
	CustomerEmail string  // Email клиента (необязателен для администратора)
	CustomerPhone *string // Телефон клиента
	Notes         *string // Заметки (опционально)
	ByAdmin       bool    // Бронь создаёт администратор: сразу confirmed, без окна подтверждения
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID     int64
	ConfirmationToken string
	CancellationToken string
	Status            string
	Start             time.Time
	End               time.Time
	ExpiresAt         *time.Time
	Date              string
	Time              string
	EndTime           string
	ServiceName       string
	DurationMinutes   int
}
