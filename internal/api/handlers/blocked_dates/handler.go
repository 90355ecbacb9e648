package blocked_dates

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgBusinessNotFound   = "бизнес не найден"
	msgBlockedNotFound    = "дата не заблокирована"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/businesses/{businessId}/blocked-dates
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/blocked-dates - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.ListBlockedDates(r.Context(), businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/blocked-dates", businessID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Add POST /api/v1/businesses/{businessId}/blocked-dates
// Повторная блокировка той же даты не ошибка
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-dates - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.BlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.AddBlockedDate(r.Context(), businessID, &req); err != nil {
		h.respondError(w, "POST /businesses/{id}/blocked-dates", businessID, err)
		return
	}

	h.logger.Info("POST /businesses/{id}/blocked-dates - Date blocked: business_id=%d, date=%s", businessID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, models.BlockedDateResponse{Date: req.Date, Reason: req.Reason})
}

// Remove DELETE /api/v1/businesses/{businessId}/blocked-dates/{date}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-dates/{date} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	date, err := domain.ParseDate(mux.Vars(r)["date"], time.UTC)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.RemoveBlockedDate(r.Context(), businessID, date); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/blocked-dates/{date}", businessID, err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/blocked-dates/{date} - Date unblocked: business_id=%d, date=%s",
		businessID, domain.DateKey(date))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, businessID int64, err error) {
	switch {
	case errors.Is(err, business.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)

	case errors.Is(err, business.ErrBusinessNotFound):
		h.logger.Warn("%s - Business not found: business_id=%d", route, businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, business.ErrBlockedDateNotFound):
		h.logger.Warn("%s - Blocked date not found: business_id=%d", route, businessID)
		handlers.RespondNotFound(w, msgBlockedNotFound)

	default:
		h.logger.Error("%s - Failed: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondInternalError(w)
	}
}
