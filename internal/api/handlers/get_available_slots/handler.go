package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: date (required, YYYY-MM-DD), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date: business_id=%d, date=%s", businessID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid parameters: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%d, service_id=%v",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%d, date=%s, error=%v",
				businessID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/available-slots - Slots retrieved: business_id=%d, date=%s, slots_count=%d",
		businessID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
