package special_schedules

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание"
	msgBusinessNotFound   = "бизнес не найден"
	msgScheduleNotFound   = "особое расписание не найдено"
	msgDuplicateSchedule  = "на эту дату уже есть активное особое расписание"
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

// List GET /api/v1/businesses/{businessId}/special-schedules
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/special-schedules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.ListSpecialSchedules(r.Context(), businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/special-schedules", businessID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Add POST /api/v1/businesses/{businessId}/special-schedules
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/special-schedules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.SpecialScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/special-schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddSpecialSchedule(r.Context(), businessID, &req)
	if err != nil {
		h.respondError(w, "POST /businesses/{id}/special-schedules", businessID, err)
		return
	}

	h.logger.Info("POST /businesses/{id}/special-schedules - Schedule created: business_id=%d, schedule_id=%d, date=%s",
		businessID, result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Remove DELETE /api/v1/businesses/{businessId}/special-schedules/{scheduleId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-schedules/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	scheduleID, err := handlers.PathInt64(r, "scheduleId")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	if err := h.service.RemoveSpecialSchedule(r.Context(), businessID, scheduleID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/special-schedules/{id}", businessID, err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/special-schedules/{id} - Schedule removed: business_id=%d, schedule_id=%d",
		businessID, scheduleID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, businessID int64, err error) {
	switch {
	case errors.Is(err, business.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondBadRequest(w, msgInvalidSchedule+": "+strings.TrimPrefix(err.Error(), business.ErrInvalidInput.Error()+": "))

	case errors.Is(err, business.ErrDuplicateSpecialSchedule):
		h.logger.Warn("%s - Duplicate schedule: business_id=%d", route, businessID)
		handlers.RespondConflict(w, msgDuplicateSchedule)

	case errors.Is(err, business.ErrBusinessNotFound):
		h.logger.Warn("%s - Business not found: business_id=%d", route, businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, business.ErrSpecialScheduleNotFound):
		h.logger.Warn("%s - Schedule not found: business_id=%d", route, businessID)
		handlers.RespondNotFound(w, msgScheduleNotFound)

	default:
		h.logger.Error("%s - Failed: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondInternalError(w)
	}
}
