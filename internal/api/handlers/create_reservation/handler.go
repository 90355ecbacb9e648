package create_reservation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgInvalidEmail       = "некорректный email"
	msgInvalidPhone       = "некорректный или отсутствующий телефон"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgDateBlocked        = "бизнес не работает в выбранную дату"
	msgDateInPast         = "выбранное время уже прошло"
	msgOutsideOpenHours   = "выбранное время вне часов работы"
	msgInvalidSlotStart   = "выбранное время не совпадает с началом слота"
	msgSlotNotAvailable   = "слот больше недоступен, выберите другое время"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/reservations
// Публичное создание: бронь в статусе pending до подтверждения по ссылке из письма
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

// HandleAdmin POST /api/v1/businesses/{businessId}/admin/reservations
// Бронь администратора сразу confirmed, email клиента необязателен
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, byAdmin bool) {
	route := "POST /businesses/{id}/reservations"
	if byAdmin {
		route = "POST /businesses/{id}/admin/reservations"
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("%s - Invalid business ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(businessID, byAdmin))
	if err != nil {
		status, msg := mapError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("%s - Failed to create reservation: business_id=%d, date=%s, time=%s, error=%v",
				route, businessID, req.Date, req.Time, err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Warn("%s - Reservation rejected: business_id=%d, date=%s, time=%s, reason=%v",
			route, businessID, req.Date, req.Time, err)
		handlers.RespondError(w, status, msg)
		return
	}

	h.logger.Info("%s - Reservation created: reservation_id=%d, business_id=%d, status=%s",
		route, result.ReservationID, businessID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// mapError сопоставляет ошибку use case с HTTP статусом и сообщением
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, createReservation.ErrInvalidEmail):
		return http.StatusBadRequest, msgInvalidEmail
	case errors.Is(err, createReservation.ErrInvalidPhone):
		return http.StatusBadRequest, msgInvalidPhone
	case errors.Is(err, createReservation.ErrInvalidDate):
		return http.StatusBadRequest, msgInvalidDate
	case errors.Is(err, createReservation.ErrInvalidTime):
		return http.StatusBadRequest, msgInvalidTime
	case errors.Is(err, createReservation.ErrInvalidInput):
		return http.StatusBadRequest, fmt.Sprintf("%s: %s", msgInvalidInput, detail(err, createReservation.ErrInvalidInput))

	case errors.Is(err, createReservation.ErrBusinessNotFound):
		return http.StatusNotFound, msgBusinessNotFound
	case errors.Is(err, createReservation.ErrServiceNotFound):
		return http.StatusNotFound, msgServiceNotFound

	case errors.Is(err, createReservation.ErrDateBlocked):
		return http.StatusUnprocessableEntity, msgDateBlocked
	case errors.Is(err, createReservation.ErrDateInPast):
		return http.StatusUnprocessableEntity, msgDateInPast
	case errors.Is(err, createReservation.ErrOutsideOpenHours):
		return http.StatusUnprocessableEntity, msgOutsideOpenHours
	case errors.Is(err, createReservation.ErrInvalidSlotStart):
		return http.StatusUnprocessableEntity, msgInvalidSlotStart

	case errors.Is(err, createReservation.ErrSlotNotAvailable),
		errors.Is(err, createReservation.ErrConcurrencyConflict):
		return http.StatusConflict, msgSlotNotAvailable

	default:
		return http.StatusInternalServerError, ""
	}
}

// detail возвращает текст ошибки без префикса sentinel
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
