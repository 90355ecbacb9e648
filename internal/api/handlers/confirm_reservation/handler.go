package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	confirmReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

const (
	msgMissingToken         = "токен подтверждения обязателен"
	msgTokenNotFound        = "ссылка подтверждения недействительна"
	msgTokenExpired         = "срок подтверждения истёк, бронь больше не действует"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgCannotConfirm        = "бронирование в текущем статусе нельзя подтвердить"
	msgExpired              = "окно подтверждения истекло"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	service ReservationService
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, service ReservationService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/confirm/{token}, GET /confirmar/{token}
// Подтверждение клиентом по ссылке из письма
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		h.logger.Warn("%s /reservations/confirm/{token} - Missing token", r.Method)
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{Token: token})
	if err != nil {
		switch {
		case errors.Is(err, confirmReservation.ErrInvalidInput):
			h.logger.Warn("%s /reservations/confirm/{token} - Invalid token: %v", r.Method, err)
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, confirmReservation.ErrTokenNotFound):
			h.logger.Warn("%s /reservations/confirm/{token} - Token not found", r.Method)
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, confirmReservation.ErrTokenExpired):
			h.logger.Warn("%s /reservations/confirm/{token} - Token expired: %v", r.Method, err)
			handlers.RespondGone(w, msgTokenExpired)

		default:
			h.logger.Error("%s /reservations/confirm/{token} - Failed to confirm reservation: error=%v", r.Method, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s /reservations/confirm/{token} - Reservation confirmed: reservation_id=%d, already_confirmed=%t",
		r.Method, result.ReservationID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleAdmin PATCH /api/v1/reservations/{reservationId}/confirm
// Подтверждение администратором без токена
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/confirm - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.service.ConfirmByAdmin(r.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrReservationExpired):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Confirmation window expired: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgExpired)

		case errors.Is(err, reservations.ErrInvalidStatusTransition):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Invalid transition: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("PATCH /reservations/{id}/confirm - Failed to confirm reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/confirm - Reservation confirmed by admin: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
