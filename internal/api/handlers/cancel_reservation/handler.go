package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingToken         = "токен отмены обязателен"
	msgNotFound             = "бронирование не найдено"
	msgTokenNotFound        = "ссылка отмены недействительна"
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

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
// Повторная отмена отвечает 200 с текущим состоянием брони
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.service.Cancel(r.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, status=%s",
		reservationID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleByToken POST /api/v1/reservations/cancel?token=, GET /cancelar-reserva?token=
// Отмена клиентом по ссылке из письма
func (h *Handler) HandleByToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.logger.Warn("%s /reservations/cancel - Missing token", r.Method)
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	result, err := h.service.CancelByToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("%s /reservations/cancel - Invalid token: %v", r.Method, err)
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, reservations.ErrTokenNotFound), errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("%s /reservations/cancel - Token not found", r.Method)
			handlers.RespondNotFound(w, msgTokenNotFound)

		default:
			h.logger.Error("%s /reservations/cancel - Failed to cancel reservation: error=%v", r.Method, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s /reservations/cancel - Reservation cancelled by customer: reservation_id=%d, status=%s",
		r.Method, result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
