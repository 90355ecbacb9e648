package get_available_slots

import (
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64  // ID бизнеса
	ServiceID  *int64 // ID услуги (без услуги используется длительность по умолчанию)
	Date       string // Дата в формате YYYY-MM-DD, в часовом поясе бизнеса
}

// Response модель ответа со списком слотов
type Response struct {
	Date            string // Дата, на которую запрашивались слоты
	BusinessID      int64  // ID бизнеса
	ServiceID       *int64 // ID услуги
	DurationMinutes int    // Длительность брони в минутах
	Slots           []Slot // Слоты в порядке возрастания времени
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время окончания слота
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}

// IsAvailable есть хотя бы одно свободное место
func (s Slot) IsAvailable() bool {
	return s.AvailableSpots > 0
}
