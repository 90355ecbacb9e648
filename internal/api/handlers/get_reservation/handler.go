package get_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.service.Get(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			h.logger.Warn("GET /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /reservations/{id} - Failed to get reservation: reservation_id=%d, error=%v", reservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/{id} - Reservation retrieved: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
