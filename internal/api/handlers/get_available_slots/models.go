package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BusinessID      int64           `json:"businessId"`
	ServiceID       *int64          `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time           string `json:"time"`    // "09:00"
	EndTime        string `json:"endTime"` // "09:30"
	Available      bool   `json:"available"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:           slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Available:      slot.IsAvailable(),
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
